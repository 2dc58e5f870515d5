package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/leaderboard"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/core/store"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db/memory"
)

const (
	walletA = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	walletB = "GBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
	walletC = "GCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"
)

// failingRecords fails every write while fail is set.
type failingRecords struct {
	*memory.RecordStore
	mu   sync.Mutex
	fail bool
}

func (f *failingRecords) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *failingRecords) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errors.New("backend unavailable")
	}
	return f.RecordStore.Set(ctx, key, value)
}

type fixture struct {
	ledger  *Ledger
	records *failingRecords
	clock   *clockwork.FakeClock
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	records := &failingRecords{RecordStore: memory.NewRecordStore()}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	return &fixture{ledger: openLedger(t, records, clock, opts), records: records, clock: clock}
}

func openLedger(t *testing.T, records ports.RecordStore, clock *clockwork.FakeClock, opts Options) *Ledger {
	t.Helper()
	st := store.New(records, store.Options{Clock: clock, Logger: zerolog.Nop()})
	require.NoError(t, st.Load(context.Background()))

	opts.Clock = clock
	opts.PINCost = bcrypt.MinCost
	if opts.Cache == nil {
		cache, err := leaderboard.NewCache(16, time.Minute, clock)
		require.NoError(t, err)
		opts.Cache = cache
	}
	return NewLedger(st, opts, zerolog.Nop())
}

// member signs up a user; wallet, when set, makes them an ambassador.
func (f *fixture) member(t *testing.T, name, wallet string) string {
	t.Helper()
	ctx := context.Background()
	u, err := f.ledger.Signup(ctx, ports.SignupInput{
		DisplayName: name,
		Email:       name + "@example.com",
		PIN:         "1234",
	})
	require.NoError(t, err)
	if wallet != "" {
		_, err = f.ledger.AttachWallet(ctx, u.ID, wallet)
		require.NoError(t, err)
	}
	f.clock.Advance(time.Minute)
	return u.ID
}

func (f *fixture) post(t *testing.T, authorID, title string) string {
	t.Helper()
	p, err := f.ledger.CreatePost(context.Background(), ports.CreatePostInput{
		AuthorID:    authorID,
		Title:       title,
		Description: "About " + title,
	})
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	return p.ID
}

func (f *fixture) score(t *testing.T, id string) int {
	t.Helper()
	amb, err := f.ledger.GetAmbassador(context.Background(), id)
	require.NoError(t, err)
	return amb.Score
}

func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	drifts, err := f.ledger.VerifyScores(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

func TestLedger_SignupLoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})

	u, err := f.ledger.Signup(ctx, ports.SignupInput{DisplayName: "Carol", Email: "Carol@Example.com", PIN: "4321"})
	require.NoError(t, err)
	assert.NotEqual(t, "4321", u.CredentialSecret)

	current, err := f.ledger.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, current.ID)

	require.NoError(t, f.ledger.Logout(ctx))
	_, err = f.ledger.CurrentUser(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = f.ledger.Login(ctx, "carol@example.com", "0000")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.ledger.Login(ctx, "nobody@example.com", "4321")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	logged, err := f.ledger.Login(ctx, " carol@example.com ", "4321")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	// The session survives a restart.
	reopened := openLedger(t, f.records, f.clock, Options{})
	current, err = reopened.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, current.ID)
}

func TestLedger_SignupValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	_, err := f.ledger.Signup(ctx, ports.SignupInput{DisplayName: "Carol", Email: "c@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.Signup(ctx, ports.SignupInput{DisplayName: "<b></b>", Email: "c@example.com", PIN: "1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.member(t, "carol", "")
	_, err = f.ledger.Signup(ctx, ports.SignupInput{DisplayName: "Carol", Email: "carol@example.com", PIN: "1"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLedger_AttachWalletAndRename(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	id := f.member(t, "alice", "")

	_, err := f.ledger.GetAmbassador(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ledger.AttachWallet(ctx, id, "GSHORT")
	assert.ErrorIs(t, err, domain.ErrInvalidWallet)

	amb, err := f.ledger.AttachWallet(ctx, id, walletA)
	require.NoError(t, err)
	assert.Equal(t, 0, amb.Score)

	u, err := f.ledger.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAmbassador, u.Role())

	f.post(t, id, "Hello")
	_, err = f.ledger.UpdateDisplayName(ctx, id, "Alice Nova")
	require.NoError(t, err)

	amb, err = f.ledger.GetAmbassador(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice Nova", amb.DisplayName)
	assert.Equal(t, 10, amb.Score)

	_, err = f.ledger.UpdateDisplayName(ctx, id, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.UpdateDisplayName(ctx, "ghost", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Scoring through the ledger
// ---------------------------------------------------------------------------

// buildLeaderboardExample produces amb1=45, amb2=38, amb3=0 using real
// posts and votes, and returns the ids plus one of amb1's posts.
func buildLeaderboardExample(t *testing.T, f *fixture) (amb1, amb2, amb3, post1 string) {
	t.Helper()
	ctx := context.Background()

	amb1 = f.member(t, "amb1", walletA)
	amb2 = f.member(t, "amb2", walletB)
	voters := make([]string, 8)
	for i := range voters {
		voters[i] = f.member(t, fmt.Sprintf("voter%d", i), "")
	}

	// amb1: 4 posts (40) + 5 votes = 45.
	post1 = f.post(t, amb1, "post1")
	for i := 1; i < 4; i++ {
		f.post(t, amb1, fmt.Sprintf("amb1-%d", i))
	}
	for _, v := range voters[:5] {
		_, err := f.ledger.CastVote(ctx, post1, v)
		require.NoError(t, err)
	}

	// amb2: 3 posts (30) + 8 votes = 38.
	p := f.post(t, amb2, "amb2-0")
	f.post(t, amb2, "amb2-1")
	f.post(t, amb2, "amb2-2")
	for _, v := range voters {
		_, err := f.ledger.CastVote(ctx, p, v)
		require.NoError(t, err)
	}

	amb3 = f.member(t, "amb3", walletC)
	return amb1, amb2, amb3, post1
}

func TestLedger_LeaderboardExample(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	amb1, amb2, amb3, _ := buildLeaderboardExample(t, f)

	entries, err := f.ledger.RankLeaderboard(ctx, domain.PeriodAllTime, 9)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, amb1, entries[0].Ambassador.ID)
	assert.Equal(t, 45, entries[0].Score)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, amb2, entries[1].Ambassador.ID)
	assert.Equal(t, 38, entries[1].Score)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, amb3, entries[2].Ambassador.ID)
	assert.Equal(t, 0, entries[2].Score)

	f.assertConsistent(t)
}

func TestLedger_VoteToggleExample(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	amb1, amb2, _, post1 := buildLeaderboardExample(t, f)
	require.Equal(t, 45, f.score(t, amb1))

	res, err := f.ledger.CastVote(ctx, post1, amb2)
	require.NoError(t, err)
	assert.Equal(t, ports.VoteStatusVoted, res.Status)
	require.NotNil(t, res.AuthorScore)
	assert.Equal(t, 46, *res.AuthorScore)
	assert.Equal(t, 6, res.VoteCount)
	assert.Equal(t, 46, f.score(t, amb1))

	again, err := f.ledger.CastVote(ctx, post1, amb2)
	require.NoError(t, err)
	assert.Equal(t, ports.VoteStatusAlreadyVoted, again.Status)
	assert.Equal(t, 46, f.score(t, amb1))

	res, err = f.ledger.RemoveVote(ctx, post1, amb2)
	require.NoError(t, err)
	assert.Equal(t, ports.VoteStatusRemoved, res.Status)
	assert.Equal(t, 45, f.score(t, amb1))

	res, err = f.ledger.RemoveVote(ctx, post1, amb2)
	require.NoError(t, err)
	assert.Equal(t, ports.VoteStatusNotVoted, res.Status)
	assert.Equal(t, 45, f.score(t, amb1))

	f.assertConsistent(t)
}

func TestLedger_CommentsDoNotScore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	amb1, amb2, amb3, post1 := buildLeaderboardExample(t, f)

	before := map[string]int{amb1: f.score(t, amb1), amb2: f.score(t, amb2), amb3: f.score(t, amb3)}

	first, err := f.ledger.AddComment(ctx, post1, amb2, "Nice post")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.ledger.AddComment(ctx, post1, amb3, "  <i>Agreed</i>  ")
	require.NoError(t, err)

	for id, score := range before {
		assert.Equal(t, score, f.score(t, id))
	}

	comments, err := f.ledger.ListComments(ctx, post1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, "Agreed", comments[1].Content)

	_, err = f.ledger.AddComment(ctx, post1, amb2, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.AddComment(ctx, "missing", amb2, "hello")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	_, err = f.ledger.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_OrphanPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	member := f.member(t, "carol", "")
	voter := f.member(t, "dave", "")

	pid := f.post(t, member, "Before wallet")
	_, err := f.ledger.AttachWallet(ctx, member, walletA)
	require.NoError(t, err)

	res, err := f.ledger.CastVote(ctx, pid, voter)
	require.NoError(t, err)
	assert.Equal(t, ports.VoteStatusVoted, res.Status)
	assert.Equal(t, 0, f.score(t, member))

	items, err := f.ledger.ListFeed(ctx, voter)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "carol", items[0].AuthorName)
	assert.True(t, items[0].ViewerHasVoted)

	f.assertConsistent(t)
}

func TestLedger_SelfVotePolicy(t *testing.T) {
	ctx := context.Background()

	allowed := newFixture(t, Options{AllowSelfVote: true})
	a := allowed.member(t, "alice", walletA)
	p := allowed.post(t, a, "Mine")
	_, err := allowed.ledger.CastVote(ctx, p, a)
	require.NoError(t, err)
	assert.Equal(t, 11, allowed.score(t, a))

	denied := newFixture(t, Options{AllowSelfVote: false})
	b := denied.member(t, "bob", walletB)
	p = denied.post(t, b, "Mine")
	_, err = denied.ledger.CastVote(ctx, p, b)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrSelfVote)
	assert.Equal(t, 10, denied.score(t, b))
}

func TestLedger_VoteUnknownPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	_, err := f.ledger.CastVote(ctx, "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.RemoveVote(ctx, "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_CreatePostValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	id := f.member(t, "alice", walletA)

	cases := []ports.CreatePostInput{
		{AuthorID: "", Title: "t", Description: "d"},
		{AuthorID: id, Title: " ", Description: "d"},
		{AuthorID: id, Title: "t", Description: "<script>x</script>"},
		{AuthorID: id, Title: "t", Description: "&lt;script&gt;alert(1)&lt;/script&gt;"},
	}
	for _, in := range cases {
		_, err := f.ledger.CreatePost(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", in)
	}
	assert.Equal(t, 0, f.score(t, id))

	p, err := f.ledger.CreatePost(ctx, ports.CreatePostInput{AuthorID: id, Title: "<b>Bold</b> & co", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "Bold & co", p.Title)
	assert.True(t, p.Attributed)
}

func TestLedger_PlainStripsEncodedMarkup(t *testing.T) {
	f := newFixture(t, Options{})

	cases := []struct {
		in, want string
	}{
		{in: "<b>t</b>", want: "t"},
		{in: "&lt;b&gt;hi&lt;/b&gt;", want: "hi"},
		{in: "&lt;img src=x onerror=alert(1)&gt;caption", want: "caption"},
		{in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{in: "a < b", want: "a < b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, f.ledger.plain(tc.in), tc.in)
	}

	deep := "&amp;amp;amp;amp;lt;script&amp;amp;amp;amp;gt;x"
	assert.NotContains(t, f.ledger.plain(deep), "<")
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func TestLedger_SaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	a := f.member(t, "alice", walletA)
	voter := f.member(t, "bob", "")
	p := f.post(t, a, "Hello")

	f.records.setFail(true)
	res, err := f.ledger.CastVote(ctx, p, voter)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	require.NotNil(t, res)
	assert.Equal(t, ports.VoteStatusVoted, res.Status)
	assert.Equal(t, 11, f.score(t, a))
	f.assertConsistent(t)

	// The next successful save catches the durable state up.
	f.records.setFail(false)
	_, err = f.ledger.AddComment(ctx, p, voter, "hi")
	require.NoError(t, err)

	reopened := openLedger(t, f.records, f.clock, Options{})
	amb, err := reopened.GetAmbassador(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 11, amb.Score)
}

func TestLedger_ReloadPreservesScores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	amb1, amb2, _, _ := buildLeaderboardExample(t, f)

	reopened := openLedger(t, f.records, f.clock, Options{})
	for id, want := range map[string]int{amb1: 45, amb2: 38} {
		amb, err := reopened.GetAmbassador(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, amb.Score)
	}
	drifts, err := reopened.VerifyScores(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestLedger_RankLeaderboardCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	a := f.member(t, "alice", walletA)
	b := f.member(t, "bob", walletB)
	f.post(t, a, "one")

	first, err := f.ledger.RankLeaderboard(ctx, domain.PeriodAllTime, 0)
	require.NoError(t, err)
	require.Equal(t, a, first[0].Ambassador.ID)

	f.post(t, b, "two")
	f.post(t, b, "three")

	second, err := f.ledger.RankLeaderboard(ctx, domain.PeriodAllTime, 0)
	require.NoError(t, err)
	assert.Equal(t, b, second[0].Ambassador.ID)
	assert.Equal(t, 20, second[0].Score)
}

func TestLedger_RankLeaderboardWindowsAndErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true, LeaderboardLimit: 2})
	a := f.member(t, "alice", walletA)
	b := f.member(t, "bob", walletB)
	f.member(t, "carol", walletC)

	f.post(t, a, "old")
	f.clock.Advance(10 * 24 * time.Hour)
	f.post(t, b, "new")

	week, err := f.ledger.RankLeaderboard(ctx, domain.PeriodLast7Days, 0)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, b, week[0].Ambassador.ID)

	all, err := f.ledger.RankLeaderboard(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2, "configured default limit applies")

	_, err = f.ledger.RankLeaderboard(ctx, domain.Period("yearly"), 9)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestLedger_Standing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	amb1, amb2, _, post1 := buildLeaderboardExample(t, f)
	_, err := f.ledger.AddComment(ctx, post1, amb2, "Nice post")
	require.NoError(t, err)

	st, err := f.ledger.Standing(ctx, amb2)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Rank)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 38, st.Score)
	assert.Equal(t, 3, st.PostsAuthored)
	assert.Equal(t, 8, st.VotesReceived)
	assert.Equal(t, 1, st.CommentsPosted)

	st, err = f.ledger.Standing(ctx, amb1)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Rank)

	_, err = f.ledger.Standing(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrAmbassadorNotFound)
}

func TestLedger_SeedDemoData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})

	seeded, err := f.ledger.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	assert.Equal(t, 12, f.score(t, "amb1"))
	assert.Equal(t, 11, f.score(t, "amb2"))
	f.assertConsistent(t)

	items, err := f.ledger.ListFeed(ctx, "amb1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "post1", items[0].PostID)
	assert.Equal(t, 2, items[0].VoteCount)
	assert.True(t, items[0].ViewerHasVoted)

	seeded, err = f.ledger.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestLedger_ConcurrentVotesStayConsistent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{AllowSelfVote: true})
	a := f.member(t, "alice", walletA)
	p := f.post(t, a, "busy")

	voters := make([]string, 10)
	for i := range voters {
		voters[i] = f.member(t, fmt.Sprintf("v%d", i), "")
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		voter := voters[i%len(voters)]
		go func(cast bool) {
			defer wg.Done()
			if cast {
				_, _ = f.ledger.CastVote(ctx, p, voter)
			} else {
				_, _ = f.ledger.RemoveVote(ctx, p, voter)
			}
		}(i%3 != 0)
		go func() {
			defer wg.Done()
			_, _ = f.ledger.ListFeed(ctx, voter)
			_, _ = f.ledger.RankLeaderboard(ctx, domain.PeriodAllTime, 0)
		}()
	}
	wg.Wait()

	f.assertConsistent(t)
	items, err := f.ledger.ListFeed(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, f.score(t, a)-10, items[0].VoteCount)
}
