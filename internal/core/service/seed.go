package service

import (
	"context"
	"strings"
	"time"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/scoring"
)

// demoWallet pads a readable tag into a well-formed account id.
func demoWallet(tag string) string {
	w := "G" + tag
	return w + strings.Repeat("X", 56-len(w))
}

// SeedDemoData installs the demo community when the ledger holds no posts and
// no ambassadors. Scores are derived by replay rather than stored as given.
// It reports whether anything was seeded.
func (l *Ledger) SeedDemoData(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.store.Collections()
	if len(c.Posts) > 0 || len(c.Ambassadors) > 0 {
		return false, nil
	}

	now := l.clock.Now().UTC()
	c.Ambassadors = append(c.Ambassadors,
		&domain.Ambassador{ID: "amb1", DisplayName: "Alice Stellar", WalletAddress: demoWallet("ALICE"), CreatedAt: now.Add(-72 * time.Hour)},
		&domain.Ambassador{ID: "amb2", DisplayName: "Bob Lumens", WalletAddress: demoWallet("BOB"), CreatedAt: now.Add(-71 * time.Hour)},
	)
	c.Posts = append(c.Posts,
		&domain.Post{
			ID:          "post1",
			AuthorID:    "amb1",
			Title:       "Welcome to Stellar Ambassador Program!",
			Description: "Excited to be part of this amazing community. Looking forward to contributing to the Stellar ecosystem and helping onboard new users.",
			CreatedAt:   now.Add(-24 * time.Hour),
			Attributed:  true,
		},
		&domain.Post{
			ID:          "post2",
			AuthorID:    "amb2",
			Title:       "Stellar Network Updates",
			Description: "The latest Stellar network improvements are now live! Enhanced transaction speeds and lower fees make it even better for cross-border payments.",
			CreatedAt:   now.Add(-48 * time.Hour),
			Attributed:  true,
		},
	)
	c.Votes = append(c.Votes,
		&domain.Vote{ID: "vote1", PostID: "post1", VoterID: "amb2", CreatedAt: now.Add(-1 * time.Hour)},
		&domain.Vote{ID: "vote2", PostID: "post1", VoterID: "amb1", CreatedAt: now.Add(-2 * time.Hour)},
		&domain.Vote{ID: "vote3", PostID: "post2", VoterID: "amb1", CreatedAt: now.Add(-3 * time.Hour)},
	)
	scoring.Rebuild(c)

	l.log.Info().Msg("demo data seeded")
	return true, l.commit(ctx)
}
