// Package store is the entity store of the engagement ledger: the in-memory
// collections plus their flush to and reload from a ports.RecordStore.
//
// The store does no locking. Its owner (service.Ledger) serializes access.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/metrics"
)

// Record key names. Each is stored under Options.Prefix + name.
const (
	KeyUser        = "user"
	KeyUsers       = "users"
	KeyPosts       = "posts"
	KeyVotes       = "votes"
	KeyAmbassadors = "ambassadors"
	KeyComments    = "comments"
)

// DefaultPrefix namespaces record keys the way the original browser storage did.
const DefaultPrefix = "ambassadorApp."

// Options configures a Store. Zero values select defaults.
type Options struct {
	Prefix string
	Clock  clockwork.Clock
	Logger zerolog.Logger
}

// Store owns the ledger collections and the current session's user.
type Store struct {
	records  ports.RecordStore
	prefix   string
	clock    clockwork.Clock
	log      zerolog.Logger
	validate *validator.Validate

	data    *Collections
	current *domain.User
	// unread holds the keys whose last Load failed. Save leaves them alone so
	// an empty in-memory collection never replaces stored records.
	unread map[string]struct{}
}

// ErrNotLoaded marks a key Save withheld because it could not be read.
var ErrNotLoaded = errors.New("key not loaded, write withheld")

// New returns an empty store backed by records. Call Load to read persisted state.
func New(records ports.RecordStore, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	v := validator.New()
	domain.RegisterWalletRule(v)

	return &Store{
		records:  records,
		prefix:   opts.Prefix,
		clock:    opts.Clock,
		log:      opts.Logger,
		validate: v,
		data:     emptyCollections(),
		unread:   map[string]struct{}{},
	}
}

func emptyCollections() *Collections {
	return &Collections{
		Users:       []*domain.User{},
		Ambassadors: []*domain.Ambassador{},
		Posts:       []*domain.Post{},
		Votes:       []*domain.Vote{},
		Comments:    []*domain.Comment{},
	}
}

// Collections exposes the live collections to the scoring engine and the
// ledger. Callers must hold the owner's lock.
func (s *Store) Collections() *Collections { return s.data }

// CurrentUser returns the session user, or nil when logged out.
func (s *Store) CurrentUser() *domain.User { return s.current }

// SetCurrentUser switches the session user; nil logs out.
func (s *Store) SetCurrentUser(u *domain.User) { s.current = u }

func (s *Store) key(name string) string { return s.prefix + name }

// Load replaces the in-memory state with the persisted records. A missing key
// yields an empty collection. A malformed key is logged and yields an empty
// collection without affecting the others. Records failing validation are
// dropped individually. Only record store read failures are returned, as a
// PersistenceError, after every key has been attempted. A key that failed to
// read is withheld from Save until a later Load reads it.
func (s *Store) Load(ctx context.Context) error {
	data := emptyCollections()
	unread := map[string]struct{}{}
	var errs []error

	read := func(name string) []byte {
		raw, err := s.records.Get(ctx, s.key(name))
		if err != nil {
			if !errors.Is(err, domain.ErrRecordNotFound) {
				metrics.PersistenceErrorsTotal.WithLabelValues(name).Inc()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				unread[name] = struct{}{}
			}
			return nil
		}
		return raw
	}

	if raw := read(KeyUsers); raw != nil {
		data.Users = decodeList(s, KeyUsers, raw, func(u *domain.User) string { return u.ID })
	}
	if raw := read(KeyAmbassadors); raw != nil {
		data.Ambassadors = decodeList(s, KeyAmbassadors, raw, func(a *domain.Ambassador) string { return a.ID })
	}
	if raw := read(KeyPosts); raw != nil {
		data.Posts = decodeList(s, KeyPosts, raw, func(p *domain.Post) string { return p.ID })
	}
	if raw := read(KeyVotes); raw != nil {
		// One vote per (post, voter): later duplicates are quarantined.
		data.Votes = decodeList(s, KeyVotes, raw, func(v *domain.Vote) string { return v.PostID + "\x00" + v.VoterID })
	}
	if raw := read(KeyComments); raw != nil {
		data.Comments = decodeList(s, KeyComments, raw, func(c *domain.Comment) string { return c.ID })
	}

	var current *domain.User
	if raw := read(KeyUser); raw != nil {
		current = s.decodeCurrent(raw, data)
	}

	s.data = data
	s.current = current
	s.unread = unread

	s.log.Info().
		Int("users", len(data.Users)).
		Int("ambassadors", len(data.Ambassadors)).
		Int("posts", len(data.Posts)).
		Int("votes", len(data.Votes)).
		Int("comments", len(data.Comments)).
		Bool("session", current != nil).
		Int("unread", len(unread)).
		Msg("ledger loaded")

	if len(errs) > 0 {
		return domain.PersistenceError("load ledger", errors.Join(errs...))
	}
	return nil
}

// decodeCurrent resolves the session record against the registered users.
// Data written before the users key existed only has the session record, so
// an unknown session user is registered.
func (s *Store) decodeCurrent(raw []byte, data *Collections) *domain.User {
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.quarantine(KeyUser, err, "malformed session record, starting logged out")
		return nil
	}
	if err := s.validate.Struct(&u); err != nil {
		s.quarantine(KeyUser, err, "invalid session record, starting logged out")
		return nil
	}
	if existing := data.User(u.ID); existing != nil {
		return existing
	}
	data.Users = append(data.Users, &u)
	return &u
}

func decodeList[T any](s *Store, name string, raw []byte, identity func(*T) string) []*T {
	var items []*T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.quarantine(name, err, "malformed record, loading empty collection")
		return []*T{}
	}

	out := make([]*T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item == nil {
			s.quarantine(name, fmt.Errorf("entry %d is null", i), "dropping record")
			continue
		}
		if err := s.validate.Struct(item); err != nil {
			s.quarantine(name, fmt.Errorf("entry %d: %w", i, err), "dropping invalid record")
			continue
		}
		id := identity(item)
		if _, dup := seen[id]; dup {
			s.quarantine(name, fmt.Errorf("entry %d duplicates %q", i, id), "dropping duplicate record")
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (s *Store) quarantine(name string, err error, msg string) {
	metrics.RecordsQuarantinedTotal.WithLabelValues(name).Inc()
	s.log.Warn().Err(err).Str("key", name).Msg(msg)
}

// Save writes every collection and the session record. Each key is written
// independently; all keys are attempted and failures are joined into one
// PersistenceError. In-memory state is never rolled back. Keys left unread by
// Load are not written and are reported as ErrNotLoaded.
func (s *Store) Save(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.SaveDuration.Observe(time.Since(start).Seconds()) }()

	records := []struct {
		name  string
		value any
	}{
		{KeyUsers, s.data.Users},
		{KeyAmbassadors, s.data.Ambassadors},
		{KeyPosts, s.data.Posts},
		{KeyVotes, s.data.Votes},
		{KeyComments, s.data.Comments},
	}

	var errs []error
	for _, r := range records {
		if _, skip := s.unread[r.name]; skip {
			errs = append(errs, fmt.Errorf("%s: %w", r.name, ErrNotLoaded))
			continue
		}
		if err := s.write(ctx, r.name, r.value); err != nil {
			errs = append(errs, err)
		}
	}

	if _, skip := s.unread[KeyUser]; skip {
		errs = append(errs, fmt.Errorf("%s: %w", KeyUser, ErrNotLoaded))
	} else if s.current != nil {
		if err := s.write(ctx, KeyUser, s.current); err != nil {
			errs = append(errs, err)
		}
	} else if err := s.records.Remove(ctx, s.key(KeyUser)); err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		metrics.PersistenceErrorsTotal.WithLabelValues(KeyUser).Inc()
		errs = append(errs, fmt.Errorf("%s: %w", KeyUser, err))
	}

	if len(errs) > 0 {
		err := domain.PersistenceError("save ledger", errors.Join(errs...))
		s.log.Error().Err(err).Msg("ledger save incomplete")
		return err
	}
	return nil
}

func (s *Store) write(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", name, err)
	}
	if err := s.records.Set(ctx, s.key(name), raw); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues(name).Inc()
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// CreateUser registers a member. credentialSecret is stored as given; the
// caller decides its encoding.
func (s *Store) CreateUser(displayName, email, credentialSecret string) (*domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	email = strings.ToLower(strings.TrimSpace(email))
	if displayName == "" {
		return nil, domain.ValidationError("display name is required", nil)
	}
	if email == "" {
		return nil, domain.ValidationError("email is required", nil)
	}
	if s.data.UserByEmail(email) != nil {
		return nil, domain.ValidationError("signup rejected", domain.ErrEmailTaken)
	}

	u := &domain.User{
		ID:               uuid.NewString(),
		DisplayName:      displayName,
		Email:            email,
		CredentialSecret: credentialSecret,
		CreatedAt:        s.clock.Now().UTC(),
	}
	s.data.Users = append(s.data.Users, u)
	return u, nil
}

// AttachWallet binds walletAddress to userID and lazily creates the user's
// ambassador record with a zero score. Re-attaching the same wallet is a no-op.
func (s *Store) AttachWallet(userID, walletAddress string) (*domain.Ambassador, error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if !domain.ValidWalletAddress(walletAddress) {
		return nil, domain.ValidationError("attach wallet", domain.ErrInvalidWallet)
	}
	u := s.data.User(userID)
	if u == nil {
		return nil, domain.NotFoundError(domain.ErrUserNotFound)
	}

	u.WalletAddress = walletAddress
	amb := s.data.Ambassador(userID)
	switch {
	case amb == nil:
		amb = &domain.Ambassador{
			ID:            u.ID,
			DisplayName:   u.DisplayName,
			WalletAddress: walletAddress,
			Score:         0,
			CreatedAt:     u.CreatedAt,
		}
		s.data.Ambassadors = append(s.data.Ambassadors, amb)
		s.log.Info().Str("ambassador_id", amb.ID).Msg("ambassador created")
	case amb.WalletAddress != walletAddress:
		amb.WalletAddress = walletAddress
	}
	return amb, nil
}
