package domain

import "time"

// Post is an ambassador publication. Attributed is fixed at creation: it is
// true only when the author resolved to an ambassador at that moment, and only
// attributed posts (and the votes they receive) count towards a score.
type Post struct {
	ID          string    `json:"id" validate:"required"`
	AuthorID    string    `json:"authorId" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt" validate:"required"`
	Attributed  bool      `json:"attributed"`
}

// Vote records that VoterID endorsed PostID. At most one exists per pair.
type Vote struct {
	ID        string    `json:"id" validate:"required"`
	PostID    string    `json:"postId" validate:"required"`
	VoterID   string    `json:"voterId" validate:"required"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}

// Comment is append-only and has no scoring side effect.
type Comment struct {
	ID        string    `json:"id" validate:"required"`
	PostID    string    `json:"postId" validate:"required"`
	AuthorID  string    `json:"authorId" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}
