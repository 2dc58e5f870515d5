package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/core/scoring"
	"github.com/ambassador-program/engagement-ledger/internal/core/store"
	"github.com/ambassador-program/engagement-ledger/internal/metrics"
)

// CreatePost publishes a post. An author who is not an ambassador gets an
// orphan post: stored and listed, never scored.
func (l *Ledger) CreatePost(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	title := l.plain(in.Title)
	description := l.plain(in.Description)
	switch {
	case strings.TrimSpace(in.AuthorID) == "":
		return nil, domain.ValidationError("author is required", nil)
	case title == "":
		return nil, domain.ValidationError("title is required", nil)
	case description == "":
		return nil, domain.ValidationError("description is required", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	post := &domain.Post{
		ID:          uuid.NewString(),
		AuthorID:    in.AuthorID,
		Title:       title,
		Description: description,
		Image:       strings.TrimSpace(in.Image),
		CreatedAt:   l.clock.Now().UTC(),
	}

	c := l.store.Collections()
	switch scoring.OnPostCreated(c, post) {
	case scoring.OutcomeOrphan:
		metrics.PostsCreatedTotal.WithLabelValues("orphan").Inc()
		l.log.Warn().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("post author is not an ambassador, post will not be scored")
	default:
		metrics.PostsCreatedTotal.WithLabelValues("attributed").Inc()
		l.log.Info().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("post created")
	}

	cp := *post
	return &cp, l.commit(ctx)
}

// CastVote records voterID's vote on postID. A repeated vote reports
// already-voted and changes nothing.
func (l *Ledger) CastVote(ctx context.Context, postID, voterID string) (*ports.VoteResult, error) {
	if voterID == "" {
		return nil, domain.ValidationError("voter is required", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.store.Collections()
	vote := &domain.Vote{
		ID:        uuid.NewString(),
		PostID:    postID,
		VoterID:   voterID,
		CreatedAt: l.clock.Now().UTC(),
	}
	outcome, err := scoring.OnVoteCast(c, vote, l.opts.AllowSelfVote)
	if err != nil {
		return nil, err
	}

	if outcome == scoring.OutcomeAlreadyVoted {
		metrics.VotesTotal.WithLabelValues(string(ports.VoteStatusAlreadyVoted)).Inc()
		return voteResult(c, postID, ports.VoteStatusAlreadyVoted), nil
	}
	metrics.VotesTotal.WithLabelValues(string(ports.VoteStatusVoted)).Inc()
	l.log.Debug().Str("post_id", postID).Str("voter_id", voterID).Msg("vote cast")

	return voteResult(c, postID, ports.VoteStatusVoted), l.commit(ctx)
}

// RemoveVote withdraws voterID's vote on postID. Removing a missing vote
// reports not-voted and changes nothing.
func (l *Ledger) RemoveVote(ctx context.Context, postID, voterID string) (*ports.VoteResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.store.Collections()
	if c.Post(postID) == nil {
		return nil, domain.NotFoundError(domain.ErrPostNotFound)
	}

	if scoring.OnVoteRemoved(c, postID, voterID) == scoring.OutcomeNoVote {
		metrics.VotesTotal.WithLabelValues(string(ports.VoteStatusNotVoted)).Inc()
		return voteResult(c, postID, ports.VoteStatusNotVoted), nil
	}
	metrics.VotesTotal.WithLabelValues(string(ports.VoteStatusRemoved)).Inc()
	l.log.Debug().Str("post_id", postID).Str("voter_id", voterID).Msg("vote removed")

	return voteResult(c, postID, ports.VoteStatusRemoved), l.commit(ctx)
}

func voteResult(c *store.Collections, postID string, status ports.VoteStatus) *ports.VoteResult {
	res := &ports.VoteResult{Status: status, PostID: postID, VoteCount: c.CountVotes(postID)}
	if p := c.Post(postID); p != nil {
		if amb := c.Ambassador(p.AuthorID); amb != nil {
			score := amb.Score
			res.AuthorScore = &score
		}
	}
	return res
}

// AddComment appends a comment. Comments never affect scores.
func (l *Ledger) AddComment(ctx context.Context, postID, authorID, content string) (*domain.Comment, error) {
	content = l.plain(content)
	if content == "" {
		return nil, domain.ValidationError("comment content is required", nil)
	}
	if authorID == "" {
		return nil, domain.ValidationError("author is required", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.store.Collections()
	if c.Post(postID) == nil {
		return nil, domain.ValidationError("add comment", domain.NotFoundError(domain.ErrPostNotFound))
	}

	cm := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: l.clock.Now().UTC(),
	}
	c.Comments = append(c.Comments, cm)
	metrics.CommentsCreatedTotal.Inc()

	cp := *cm
	return &cp, l.commit(ctx)
}

// ListComments returns postID's comments oldest first.
func (l *Ledger) ListComments(_ context.Context, postID string) ([]domain.Comment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c := l.store.Collections()
	if c.Post(postID) == nil {
		return nil, domain.NotFoundError(domain.ErrPostNotFound)
	}
	return c.CommentsFor(postID), nil
}
