package store

import (
	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// Collections holds the ledger's entity collections. Slices keep insertion
// order, which is also creation order for votes and comments.
type Collections struct {
	Users       []*domain.User
	Ambassadors []*domain.Ambassador
	Posts       []*domain.Post
	Votes       []*domain.Vote
	Comments    []*domain.Comment
}

func (c *Collections) User(id string) *domain.User {
	for _, u := range c.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (c *Collections) UserByEmail(email string) *domain.User {
	for _, u := range c.Users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (c *Collections) Ambassador(id string) *domain.Ambassador {
	for _, a := range c.Ambassadors {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (c *Collections) Post(id string) *domain.Post {
	for _, p := range c.Posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// VoteIndex returns the position of the (postID, voterID) vote, or -1.
func (c *Collections) VoteIndex(postID, voterID string) int {
	for i, v := range c.Votes {
		if v.PostID == postID && v.VoterID == voterID {
			return i
		}
	}
	return -1
}

// RemoveVoteAt deletes the vote at i, preserving order.
func (c *Collections) RemoveVoteAt(i int) *domain.Vote {
	v := c.Votes[i]
	c.Votes = append(c.Votes[:i], c.Votes[i+1:]...)
	return v
}

// CountVotes returns the number of votes on postID.
func (c *Collections) CountVotes(postID string) int {
	n := 0
	for _, v := range c.Votes {
		if v.PostID == postID {
			n++
		}
	}
	return n
}

// CommentsFor returns the comments on postID in creation order.
func (c *Collections) CommentsFor(postID string) []domain.Comment {
	out := make([]domain.Comment, 0)
	for _, cm := range c.Comments {
		if cm.PostID == postID {
			out = append(out, *cm)
		}
	}
	return out
}

// Clone returns a deep copy safe to read while the original is mutated.
func (c *Collections) Clone() *Collections {
	out := &Collections{
		Users:       make([]*domain.User, len(c.Users)),
		Ambassadors: make([]*domain.Ambassador, len(c.Ambassadors)),
		Posts:       make([]*domain.Post, len(c.Posts)),
		Votes:       make([]*domain.Vote, len(c.Votes)),
		Comments:    make([]*domain.Comment, len(c.Comments)),
	}
	for i, u := range c.Users {
		cp := *u
		out.Users[i] = &cp
	}
	for i, a := range c.Ambassadors {
		cp := *a
		out.Ambassadors[i] = &cp
	}
	for i, p := range c.Posts {
		cp := *p
		out.Posts[i] = &cp
	}
	for i, v := range c.Votes {
		cp := *v
		out.Votes[i] = &cp
	}
	for i, cm := range c.Comments {
		cp := *cm
		out.Comments[i] = &cp
	}
	return out
}
