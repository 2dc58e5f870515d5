// Package leaderboard ranks ambassadors by score.
package leaderboard

import (
	"sort"
	"time"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/core/store"
)

const (
	DefaultLimit = 9
	MaxLimit     = 100
)

// NormalizeLimit maps a non-positive limit to DefaultLimit and caps the rest
// at MaxLimit.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LastActivity returns, per ambassador, the most recent contributing event:
// the creation of an attributed post they authored or a vote received on one.
func LastActivity(c *store.Collections) map[string]time.Time {
	last := make(map[string]time.Time, len(c.Ambassadors))
	authorOf := make(map[string]string, len(c.Posts))
	bump := func(id string, at time.Time) {
		if at.After(last[id]) {
			last[id] = at
		}
	}
	for _, p := range c.Posts {
		if !p.Attributed {
			continue
		}
		authorOf[p.ID] = p.AuthorID
		bump(p.AuthorID, p.CreatedAt)
	}
	for _, v := range c.Votes {
		if author, ok := authorOf[v.PostID]; ok {
			bump(author, v.CreatedAt)
		}
	}
	return last
}

// Rank selects the ambassadors active in period, orders them by score desc,
// account creation asc, then id asc, and returns the top limit entries with
// 1-based ranks. An empty result is a valid answer.
func Rank(c *store.Collections, period domain.Period, limit int, now time.Time) []ports.LeaderboardEntry {
	limit = NormalizeLimit(limit)
	last := LastActivity(c)
	window, bounded := period.Window()
	cutoff := now.Add(-window)

	selected := make([]*domain.Ambassador, 0, len(c.Ambassadors))
	for _, a := range c.Ambassadors {
		if bounded {
			at, ok := last[a.ID]
			if !ok || at.Before(cutoff) || at.After(now) {
				continue
			}
		}
		selected = append(selected, a)
	}
	sortAmbassadors(selected)

	if len(selected) > limit {
		selected = selected[:limit]
	}
	entries := make([]ports.LeaderboardEntry, len(selected))
	for i, a := range selected {
		entries[i] = ports.LeaderboardEntry{
			Rank:         i + 1,
			Ambassador:   *a,
			Score:        a.Score,
			LastActivity: last[a.ID],
		}
	}
	return entries
}

func sortAmbassadors(as []*domain.Ambassador) {
	sort.SliceStable(as, func(i, j int) bool {
		a, b := as[i], as[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Standing summarizes one ambassador for the dashboard: all-time rank among
// every ambassador and their contribution counts.
func Standing(c *store.Collections, ambassadorID string) (*ports.Standing, error) {
	if c.Ambassador(ambassadorID) == nil {
		return nil, domain.NotFoundError(domain.ErrAmbassadorNotFound)
	}

	ordered := append([]*domain.Ambassador(nil), c.Ambassadors...)
	sortAmbassadors(ordered)

	st := &ports.Standing{AmbassadorID: ambassadorID, Total: len(ordered)}
	for i, a := range ordered {
		if a.ID == ambassadorID {
			st.Rank = i + 1
			st.Score = a.Score
			break
		}
	}

	authored := make(map[string]struct{})
	for _, p := range c.Posts {
		if p.Attributed && p.AuthorID == ambassadorID {
			authored[p.ID] = struct{}{}
		}
	}
	st.PostsAuthored = len(authored)
	for _, v := range c.Votes {
		if _, ok := authored[v.PostID]; ok {
			st.VotesReceived++
		}
	}
	for _, cm := range c.Comments {
		if cm.AuthorID == ambassadorID {
			st.CommentsPosted++
		}
	}
	return st, nil
}
