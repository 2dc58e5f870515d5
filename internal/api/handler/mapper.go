package handler

import (
	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

// toUserResponse never carries the credential secret.
func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		Role:          u.Role(),
		CreatedAt:     u.CreatedAt,
	}
}

func toAmbassadorResponse(a domain.Ambassador) ambassadorResponse {
	return ambassadorResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Wallet:      a.WalletAddress,
		Score:       a.Score,
		CreatedAt:   a.CreatedAt,
	}
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Attributed:  p.Attributed,
		CreatedAt:   p.CreatedAt,
	}
}

func toFeedResponse(items []ports.FeedItem) []feedItemResponse {
	out := make([]feedItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, feedItemResponse{
			ID:              it.PostID,
			Title:           it.Title,
			Description:     it.Description,
			DescriptionHTML: it.DescriptionHTML,
			Image:           it.Image,
			CreatedAt:       it.CreatedAt,
			AuthorID:        it.AuthorID,
			AuthorName:      it.AuthorName,
			AuthorWallet:    it.AuthorWallet,
			VoteCount:       it.VoteCount,
			HasVoted:        it.ViewerHasVoted,
			CommentCount:    it.CommentCount,
		})
	}
	return out
}

func toVoteResponse(r *ports.VoteResult) voteResponse {
	return voteResponse{
		Status:      string(r.Status),
		PostID:      r.PostID,
		VoteCount:   r.VoteCount,
		AuthorScore: r.AuthorScore,
	}
}

func toCommentResponse(cm domain.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		AuthorID:  cm.AuthorID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
	}
}

func toLeaderboardResponse(period domain.Period, entries []ports.LeaderboardEntry) leaderboardResponse {
	resp := leaderboardResponse{Period: string(period), Entries: make([]leaderboardEntryResponse, 0, len(entries))}
	for _, e := range entries {
		row := leaderboardEntryResponse{
			Rank:       e.Rank,
			Ambassador: toAmbassadorResponse(e.Ambassador),
			Score:      e.Score,
		}
		if !e.LastActivity.IsZero() {
			at := e.LastActivity
			row.LastActivity = &at
		}
		resp.Entries = append(resp.Entries, row)
	}
	return resp
}

func toVerifyResponse(drifts []ports.ScoreDrift) verifyResponse {
	resp := verifyResponse{Consistent: len(drifts) == 0, Drifts: make([]scoreDriftResponse, 0, len(drifts))}
	for _, d := range drifts {
		resp.Drifts = append(resp.Drifts, scoreDriftResponse{
			AmbassadorID: d.AmbassadorID,
			Stored:       d.Stored,
			Replayed:     d.Replayed,
		})
	}
	return resp
}
