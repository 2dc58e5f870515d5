package service

import (
	"context"
	"html"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/feed"
	"github.com/ambassador-program/engagement-ledger/internal/core/leaderboard"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/core/scoring"
	"github.com/ambassador-program/engagement-ledger/internal/core/store"
)

// Options configures a Ledger. Zero values select defaults, except
// AllowSelfVote which callers set explicitly.
type Options struct {
	AllowSelfVote    bool
	LeaderboardLimit int
	Clock            clockwork.Clock
	// Cache memoizes rankings; nil disables caching.
	Cache *leaderboard.Cache
	// PINCost is the bcrypt cost for stored PINs.
	PINCost int
}

// Ledger is the operation surface over the entity store. Operations are
// serialized: mutations hold the write lock through the save, reads share
// the read lock.
type Ledger struct {
	mu     sync.RWMutex
	store  *store.Store
	feed   *feed.Aggregator
	cache  *leaderboard.Cache
	clock  clockwork.Clock
	strict *bluemonday.Policy
	opts   Options
	log    zerolog.Logger
}

var _ ports.LedgerService = (*Ledger)(nil)

func NewLedger(st *store.Store, opts Options, log zerolog.Logger) *Ledger {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.PINCost == 0 {
		opts.PINCost = bcrypt.DefaultCost
	}
	opts.LeaderboardLimit = leaderboard.NormalizeLimit(opts.LeaderboardLimit)

	return &Ledger{
		store:  st,
		feed:   feed.NewAggregator(),
		cache:  opts.Cache,
		clock:  opts.Clock,
		strict: bluemonday.StrictPolicy(),
		opts:   opts,
		log:    log,
	}
}

// commit persists after a mutation. The in-memory change is kept whatever
// the outcome; a failure is returned as a PersistenceError.
func (l *Ledger) commit(ctx context.Context) error {
	if l.cache != nil {
		l.cache.Purge()
	}
	return l.store.Save(ctx)
}

// maxSanitizePasses bounds how many layers of entity encoding plain unwraps.
const maxSanitizePasses = 4

// plain strips markup from user input and trims it. Entities are decoded only
// while the decoded text sanitizes to itself, so encoded markup such as
// &lt;b&gt; is stripped too. Text still changing after maxSanitizePasses is
// kept in its escaped form.
func (l *Ledger) plain(s string) string {
	cur := s
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(l.strict.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	return strings.TrimSpace(l.strict.Sanitize(cur))
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func copyAmbassador(a *domain.Ambassador) *domain.Ambassador {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

// Signup registers a member and opens their session.
func (l *Ledger) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if strings.TrimSpace(in.PIN) == "" {
		return nil, domain.ValidationError("pin is required", nil)
	}
	secret, err := hashPIN(in.PIN, l.opts.PINCost)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u, err := l.store.CreateUser(l.plain(in.DisplayName), in.Email, secret)
	if err != nil {
		return nil, err
	}
	l.store.SetCurrentUser(u)
	l.log.Info().Str("user_id", u.ID).Msg("member signed up")

	return copyUser(u), l.commit(ctx)
}

// Login checks the PIN for email and opens the session.
func (l *Ledger) Login(ctx context.Context, email, pin string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pin == "" {
		return nil, domain.ValidationError("email and pin are required", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.store.Collections().UserByEmail(email)
	if u == nil {
		return nil, domain.NotFoundError(domain.ErrUserNotFound)
	}
	if !checkPIN(u.CredentialSecret, pin) {
		l.log.Debug().Str("user_id", u.ID).Msg("login rejected")
		return nil, domain.ValidationError("login", domain.ErrInvalidCredentials)
	}
	l.store.SetCurrentUser(u)

	return copyUser(u), l.commit(ctx)
}

// Logout closes the session. Logging out with no session is a no-op.
func (l *Ledger) Logout(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store.CurrentUser() == nil {
		return nil
	}
	l.store.SetCurrentUser(nil)
	return l.store.Save(ctx)
}

func (l *Ledger) CurrentUser(_ context.Context) (*domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u := l.store.CurrentUser()
	if u == nil {
		return nil, domain.NotFoundError(domain.ErrNoSession)
	}
	return copyUser(u), nil
}

func (l *Ledger) GetUser(_ context.Context, userID string) (*domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u := l.store.Collections().User(userID)
	if u == nil {
		return nil, domain.NotFoundError(domain.ErrUserNotFound)
	}
	return copyUser(u), nil
}

// AttachWallet binds a wallet, making the user an ambassador.
func (l *Ledger) AttachWallet(ctx context.Context, userID, walletAddress string) (*domain.Ambassador, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	amb, err := l.store.AttachWallet(userID, walletAddress)
	if err != nil {
		return nil, err
	}
	return copyAmbassador(amb), l.commit(ctx)
}

// UpdateDisplayName renames a user and their ambassador record.
func (l *Ledger) UpdateDisplayName(ctx context.Context, userID, displayName string) (*domain.User, error) {
	name := l.plain(displayName)
	if name == "" {
		return nil, domain.ValidationError("display name is required", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.store.Collections()
	u := c.User(userID)
	if u == nil {
		return nil, domain.NotFoundError(domain.ErrUserNotFound)
	}
	u.DisplayName = name
	scoring.OnDisplayNameChanged(c, userID, name)

	return copyUser(u), l.commit(ctx)
}
