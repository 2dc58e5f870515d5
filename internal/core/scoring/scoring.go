// Package scoring keeps each ambassador's derived score consistent with post
// and vote events.
//
// score = PostPoints per attributed post authored + VotePoints per vote
// received on those posts. Every function here is deterministic and applies
// one logical event completely or not at all.
package scoring

import (
	"sort"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/core/store"
)

const (
	PostPoints = 10
	VotePoints = 1
)

// Outcome describes what an event did to the ledger.
type Outcome string

const (
	OutcomeApplied      Outcome = "applied"
	OutcomeOrphan       Outcome = "orphan"
	OutcomeAlreadyVoted Outcome = "already-voted"
	OutcomeNoVote       Outcome = "not-voted"
)

// OnPostCreated appends post and credits its author. A post whose author is
// not an ambassador is kept as an orphan: visible, never scored.
func OnPostCreated(c *store.Collections, post *domain.Post) Outcome {
	amb := c.Ambassador(post.AuthorID)
	post.Attributed = amb != nil
	c.Posts = append(c.Posts, post)
	if amb == nil {
		return OutcomeOrphan
	}
	amb.Score += PostPoints
	return OutcomeApplied
}

// OnVoteCast records vote unless the voter already voted on the post. The
// post must exist. When allowSelfVote is false a vote by the post's author is
// rejected.
func OnVoteCast(c *store.Collections, vote *domain.Vote, allowSelfVote bool) (Outcome, error) {
	post := c.Post(vote.PostID)
	if post == nil {
		return "", domain.NotFoundError(domain.ErrPostNotFound)
	}
	if c.VoteIndex(vote.PostID, vote.VoterID) >= 0 {
		return OutcomeAlreadyVoted, nil
	}
	if !allowSelfVote && post.AuthorID == vote.VoterID {
		return "", domain.ValidationError("cast vote", domain.ErrSelfVote)
	}

	c.Votes = append(c.Votes, vote)
	if amb := creditedAuthor(c, post); amb != nil {
		amb.Score += VotePoints
	}
	return OutcomeApplied, nil
}

// OnVoteRemoved destroys the (postID, voterID) vote and debits the author.
// Removing a vote that does not exist is a no-op.
func OnVoteRemoved(c *store.Collections, postID, voterID string) Outcome {
	i := c.VoteIndex(postID, voterID)
	if i < 0 {
		return OutcomeNoVote
	}
	c.RemoveVoteAt(i)
	if post := c.Post(postID); post != nil {
		if amb := creditedAuthor(c, post); amb != nil {
			amb.Score -= VotePoints
		}
	}
	return OutcomeApplied
}

// OnDisplayNameChanged renames the ambassador record. Score is untouched.
func OnDisplayNameChanged(c *store.Collections, ambassadorID, name string) bool {
	amb := c.Ambassador(ambassadorID)
	if amb == nil {
		return false
	}
	amb.DisplayName = name
	return true
}

func creditedAuthor(c *store.Collections, post *domain.Post) *domain.Ambassador {
	if !post.Attributed {
		return nil
	}
	return c.Ambassador(post.AuthorID)
}

// Replay recomputes ambassadorID's score from the stored posts and votes.
func Replay(c *store.Collections, ambassadorID string) int {
	return replayAll(c)[ambassadorID]
}

func replayAll(c *store.Collections) map[string]int {
	scores := make(map[string]int, len(c.Ambassadors))
	authorOf := make(map[string]string, len(c.Posts))
	for _, p := range c.Posts {
		if !p.Attributed {
			continue
		}
		authorOf[p.ID] = p.AuthorID
		scores[p.AuthorID] += PostPoints
	}
	for _, v := range c.Votes {
		if author, ok := authorOf[v.PostID]; ok {
			scores[author] += VotePoints
		}
	}
	return scores
}

// Verify reports every ambassador whose stored score differs from replay,
// ordered by id.
func Verify(c *store.Collections) []ports.ScoreDrift {
	replayed := replayAll(c)
	drifts := make([]ports.ScoreDrift, 0)
	for _, a := range c.Ambassadors {
		if r := replayed[a.ID]; r != a.Score {
			drifts = append(drifts, ports.ScoreDrift{AmbassadorID: a.ID, Stored: a.Score, Replayed: r})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].AmbassadorID < drifts[j].AmbassadorID })
	return drifts
}

// Rebuild overwrites every stored score with its replay value. Used after
// seeding and to repair drift.
func Rebuild(c *store.Collections) {
	replayed := replayAll(c)
	for _, a := range c.Ambassadors {
		a.Score = replayed[a.ID]
	}
}
