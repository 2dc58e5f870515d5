package service

import (
	"context"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/leaderboard"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/core/scoring"
)

func (l *Ledger) ListFeed(_ context.Context, viewerID string) ([]ports.FeedItem, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.feed.List(l.store.Collections(), viewerID), nil
}

// RankLeaderboard ranks ambassadors for period. A non-positive limit uses the
// configured default.
func (l *Ledger) RankLeaderboard(_ context.Context, period domain.Period, limit int) ([]ports.LeaderboardEntry, error) {
	if period == "" {
		period = domain.PeriodAllTime
	}
	if _, bounded := period.Window(); !bounded && period != domain.PeriodAllTime {
		return nil, domain.ValidationError("rank leaderboard", domain.ErrInvalidPeriod)
	}
	if limit <= 0 {
		limit = l.opts.LeaderboardLimit
	}
	limit = leaderboard.NormalizeLimit(limit)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.cache != nil {
		if entries, ok := l.cache.Get(period, limit); ok {
			return entries, nil
		}
	}
	entries := leaderboard.Rank(l.store.Collections(), period, limit, l.clock.Now())
	if l.cache != nil {
		l.cache.Set(period, limit, entries)
	}
	return entries, nil
}

func (l *Ledger) GetAmbassador(_ context.Context, id string) (*domain.Ambassador, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	amb := l.store.Collections().Ambassador(id)
	if amb == nil {
		return nil, domain.NotFoundError(domain.ErrAmbassadorNotFound)
	}
	return copyAmbassador(amb), nil
}

func (l *Ledger) Standing(_ context.Context, ambassadorID string) (*ports.Standing, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return leaderboard.Standing(l.store.Collections(), ambassadorID)
}

// VerifyScores replays every score and reports drift. An empty result means
// the ledger is consistent.
func (l *Ledger) VerifyScores(_ context.Context) ([]ports.ScoreDrift, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	drifts := scoring.Verify(l.store.Collections())
	if len(drifts) > 0 {
		l.log.Warn().Int("ambassadors", len(drifts)).Msg("score drift detected")
	}
	return drifts, nil
}
