package ports

import (
	"context"
	"time"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// SignupInput carries the fields collected at registration.
type SignupInput struct {
	DisplayName string
	Email       string
	PIN         string
}

// CreatePostInput carries a new post. Image is an optional content reference.
type CreatePostInput struct {
	AuthorID    string
	Title       string
	Description string
	Image       string
}

// VoteStatus is the outcome of a vote toggle.
type VoteStatus string

const (
	VoteStatusVoted        VoteStatus = "voted"
	VoteStatusAlreadyVoted VoteStatus = "already-voted"
	VoteStatusRemoved      VoteStatus = "removed"
	VoteStatusNotVoted     VoteStatus = "not-voted"
)

// VoteResult is returned by CastVote and RemoveVote.
type VoteResult struct {
	Status    VoteStatus
	PostID    string
	VoteCount int
	// AuthorScore is the post author's score after the toggle; nil when the
	// author is not an ambassador.
	AuthorScore *int
}

// FeedItem is the view-ready summary of one post.
type FeedItem struct {
	PostID          string
	Title           string
	Description     string
	DescriptionHTML string
	Image           string
	CreatedAt       time.Time
	AuthorID        string
	AuthorName      string
	AuthorWallet    string
	VoteCount       int
	ViewerHasVoted  bool
	CommentCount    int
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank         int
	Ambassador   domain.Ambassador
	Score        int
	LastActivity time.Time // zero when the ambassador has no contributing event
}

// Standing is an ambassador's dashboard summary.
type Standing struct {
	AmbassadorID   string
	Rank           int
	Total          int
	Score          int
	PostsAuthored  int
	VotesReceived  int
	CommentsPosted int
}

// ScoreDrift reports an ambassador whose stored score differs from replay.
type ScoreDrift struct {
	AmbassadorID string
	Stored       int
	Replayed     int
}

// LedgerService is the operation surface offered to the UI collaborator.
type LedgerService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, pin string) (*domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	AttachWallet(ctx context.Context, userID, walletAddress string) (*domain.Ambassador, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*domain.User, error)

	CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	CastVote(ctx context.Context, postID, voterID string) (*VoteResult, error)
	RemoveVote(ctx context.Context, postID, voterID string) (*VoteResult, error)
	AddComment(ctx context.Context, postID, authorID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)

	ListFeed(ctx context.Context, viewerID string) ([]FeedItem, error)
	RankLeaderboard(ctx context.Context, period domain.Period, limit int) ([]LeaderboardEntry, error)
	GetAmbassador(ctx context.Context, id string) (*domain.Ambassador, error)
	Standing(ctx context.Context, ambassadorID string) (*Standing, error)
	VerifyScores(ctx context.Context) ([]ScoreDrift, error)
}
