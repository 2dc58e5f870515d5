package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type signupRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=80"`
	Email       string `json:"email"       validate:"required,email"`
	PIN         string `json:"pin"         validate:"required,min=4,max=72"`
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	PIN   string `json:"pin"   validate:"required"`
}

type walletRequest struct {
	Wallet string `json:"wallet" validate:"required,wallet"`
}

type renameRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=80"`
}

type createPostRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	Image       string `json:"image"       validate:"omitempty,url"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type leaderboardQuery struct {
	Period string `query:"period"`
	Limit  int    `query:"limit" validate:"gte=0,lte=100"`
}

// --- Response types ---

type userResponse struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"displayName"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"walletAddress,omitempty"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type ambassadorResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Wallet      string    `json:"wallet"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
}

type walletResponse struct {
	Token      string             `json:"token"`
	Ambassador ambassadorResponse `json:"ambassador"`
}

type postResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"authorId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Attributed  bool      `json:"attributed"`
	CreatedAt   time.Time `json:"createdAt"`
}

type feedItemResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"descriptionHtml"`
	Image           string    `json:"image,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	AuthorID        string    `json:"authorId"`
	AuthorName      string    `json:"authorName"`
	AuthorWallet    string    `json:"authorWallet,omitempty"`
	VoteCount       int       `json:"voteCount"`
	HasVoted        bool      `json:"hasVoted"`
	CommentCount    int       `json:"commentCount"`
}

type voteResponse struct {
	Status      string `json:"status"`
	PostID      string `json:"postId"`
	VoteCount   int    `json:"voteCount"`
	AuthorScore *int   `json:"authorScore,omitempty"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type leaderboardEntryResponse struct {
	Rank         int                `json:"rank"`
	Ambassador   ambassadorResponse `json:"ambassador"`
	Score        int                `json:"score"`
	LastActivity *time.Time         `json:"lastActivity,omitempty"`
}

type leaderboardResponse struct {
	Period  string                     `json:"period"`
	Entries []leaderboardEntryResponse `json:"entries"`
}

type standingResponse struct {
	AmbassadorID   string `json:"ambassadorId"`
	Rank           int    `json:"rank"`
	Total          int    `json:"total"`
	Score          int    `json:"score"`
	PostsAuthored  int    `json:"postsAuthored"`
	VotesReceived  int    `json:"votesReceived"`
	CommentsPosted int    `json:"commentsPosted"`
}

type scoreDriftResponse struct {
	AmbassadorID string `json:"ambassadorId"`
	Stored       int    `json:"stored"`
	Replayed     int    `json:"replayed"`
}

type verifyResponse struct {
	Consistent bool                 `json:"consistent"`
	Drifts     []scoreDriftResponse `json:"drifts"`
}
