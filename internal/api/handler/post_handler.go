package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

// PostHandler handles the feed, votes and comments.
type PostHandler struct {
	ledger ports.LedgerService
}

func NewPostHandler(ledger ports.LedgerService) *PostHandler {
	return &PostHandler{ledger: ledger}
}

// List handles GET /v1/posts.
//
// @Summary      Feed
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   feedItemResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	items, err := h.ledger.ListFeed(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toFeedResponse(items))
}

// Create handles POST /v1/posts.
//
// @Summary      Publish a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.ledger.CreatePost(c.Request().Context(), ports.CreatePostInput{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Vote handles POST /v1/posts/:id/vote. Voting twice is not an error; the
// response status reports already-voted.
//
// @Summary      Vote for a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  voteResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id}/vote [post]
func (h *PostHandler) Vote(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	res, err := h.ledger.CastVote(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toVoteResponse(res))
}

// Unvote handles DELETE /v1/posts/:id/vote.
//
// @Summary      Withdraw a vote
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  voteResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id}/vote [delete]
func (h *PostHandler) Unvote(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	res, err := h.ledger.RemoveVote(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toVoteResponse(res))
}

// ListComments handles GET /v1/posts/:id/comments.
//
// @Summary      Comments on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id}/comments [get]
func (h *PostHandler) ListComments(c echo.Context) error {
	comments, err := h.ledger.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	out := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResponse(cm))
	}
	return c.JSON(http.StatusOK, out)
}

// AddComment handles POST /v1/posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/posts/{id}/comments [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cm, err := h.ledger.AddComment(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toCommentResponse(*cm))
}
