package server

import (
	"errors"

	"fitpulse/internal/feed"
	"fitpulse/internal/middleware"
	"fitpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the payload for a new community post.
type CreatePostRequest struct {
	Content string `json:"content"`
}

// CreateCommentRequest is the payload for a new comment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// GetFeed loads the community feed for the signed-in member. A backend
// fetch failure degrades to an empty feed rather than an error page; the
// failure is logged and the response carries the empty list.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	sc := s.screenFor(identity)
	posts, err := sc.feed.Load(c.Context())
	if err != nil {
		return c.JSON(fiber.Map{"posts": []feed.Post{}, "degraded": true})
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreatePost creates a community post. Whitespace-only content never
// reaches the backend and is rejected here.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, models.NewValidationError("Invalid request body"))
	}

	sc := s.screenFor(identity)
	post, err := sc.feed.CreatePost(c.Context(), req.Content)
	if err != nil {
		middleware.WriteFailures.WithLabelValues("community_posts", "insert").Inc()
		return handleError(c, err)
	}
	if post == nil {
		return handleError(c, models.NewValidationError("Post content is required"))
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// CreateComment adds a comment to the given post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, models.NewValidationError("Invalid request body"))
	}

	sc := s.screenFor(identity)
	comment, err := sc.feed.AddComment(c.Context(), c.Params("id"), req.Content)
	if err != nil {
		middleware.WriteFailures.WithLabelValues("comments", "insert").Inc()
		return handleError(c, err)
	}
	if comment == nil {
		return handleError(c, models.NewValidationError("Comment content is required"))
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// SetCommentDraft stores the in-progress comment text for a post so the
// composer survives screen refreshes.
func (s *Server) SetCommentDraft(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, models.NewValidationError("Invalid request body"))
	}

	s.screenFor(identity).feed.SetDraft(c.Params("id"), req.Content)
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost increments the post's like counter. The in-memory count is
// bumped before the backend write; a failed write keeps the optimistic
// count, so the response carries the locally visible value either way.
func (s *Server) LikePost(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	sc := s.screenFor(identity)
	postID := c.Params("id")
	if err := sc.feed.LikePost(c.Context(), postID); err != nil {
		if errors.Is(err, feed.ErrInFlight) {
			return handleError(c, err)
		}
		middleware.WriteFailures.WithLabelValues("community_posts", "update").Inc()
	}

	for _, post := range sc.feed.Posts() {
		if post.ID == postID {
			return c.JSON(fiber.Map{"id": post.ID, "likes": post.Likes})
		}
	}
	return handleError(c, models.NewNotFoundError("Post", postID))
}
