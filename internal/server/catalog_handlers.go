package server

import (
	"strconv"
	"time"

	"fitpulse/internal/connections"
	"fitpulse/internal/models"
	"fitpulse/internal/schedule"
	"fitpulse/internal/workouts"

	"github.com/gofiber/fiber/v2"
)

// GetWorkouts returns the browsable workout catalog, optionally filtered
// by a search query ("q") and a category.
func (s *Server) GetWorkouts(c *fiber.Ctx) error {
	query := c.Query("q")
	category := c.Query("category")

	return c.JSON(fiber.Map{
		"popular": workouts.Popular(query, category),
		"recent":  workouts.Recent(query, category),
	})
}

// GetGoals returns the member's active and completed goals, optionally
// filtered by a search query.
func (s *Server) GetGoals(c *fiber.Ctx) error {
	query := c.Query("q")

	return c.JSON(fiber.Map{
		"active":    workouts.ActiveGoals(query),
		"completed": workouts.CompletedGoals(query),
	})
}

// GetSchedule returns the week view and the upcoming list for the week
// containing the given date (query param "date", RFC 3339 date, default
// today).
func (s *Server) GetSchedule(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return handleError(c, models.NewValidationError("Invalid date, expected YYYY-MM-DD"))
		}
		date = parsed
	}

	return c.JSON(fiber.Map{
		"week_start": schedule.StartOfWeek(date),
		"days":       schedule.Week(date),
		"upcoming":   schedule.Upcoming(date),
	})
}

// GetSuggestedConnections returns member suggestions, excluding the
// signed-in member.
func (s *Server) GetSuggestedConnections(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	return c.JSON(fiber.Map{"suggestions": connections.Suggested(identity.ID)})
}

// GetNotifications returns the notifications the member's view-model
// layer has raised and not yet dismissed.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	return c.JSON(fiber.Map{"notifications": s.screenFor(identity).notifier.All()})
}

// DismissNotification removes one notification by id.
func (s *Server) DismissNotification(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return handleError(c, models.NewValidationError("Invalid notification id"))
	}

	s.screenFor(identity).notifier.Dismiss(id)
	return c.SendStatus(fiber.StatusNoContent)
}
