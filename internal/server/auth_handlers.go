package server

import (
	"fitpulse/internal/middleware"
	"fitpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SignupRequest is the payload for account registration.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest is the payload for sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account and returns a signed-in session.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, models.NewValidationError("Invalid request body"))
	}

	sess, err := s.sessions.SignUp(c.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return handleError(c, err)
	}

	middleware.Logger.InfoContext(c.Context(), "account created",
		"user_id", sess.Identity.ID)
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// Login authenticates an email/password pair and returns a session.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, models.NewValidationError("Invalid request body"))
	}

	sess, err := s.sessions.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(sess)
}

// Logout discards the member's server-side view-model state. Tokens are
// stateless, so the client drops its copy; the session simply expires.
func (s *Server) Logout(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if ok {
		s.dropScreen(identity.ID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
