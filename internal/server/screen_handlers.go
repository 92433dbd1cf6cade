package server

import (
	"time"

	"fitpulse/internal/connections"
	"fitpulse/internal/feed"
	"fitpulse/internal/models"
	"fitpulse/internal/profile"
	"fitpulse/internal/schedule"
	"fitpulse/internal/workouts"

	"github.com/gofiber/fiber/v2"
)

// CommunityScreen composes the community screen bundle: the post feed
// plus suggested connections. A degraded feed still renders the screen.
func (s *Server) CommunityScreen(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	sc := s.screenFor(identity)
	posts, err := sc.feed.Load(c.Context())
	if err != nil {
		posts = []feed.Post{}
	}

	return c.JSON(fiber.Map{
		"posts":       posts,
		"suggestions": connections.Suggested(identity.ID),
	})
}

// ProfileScreen composes the profile screen bundle: the profile record
// and the member's workout interests.
func (s *Server) ProfileScreen(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	sc := s.screenFor(identity)
	view, err := sc.profiles.LoadProfile(c.Context(), identity.ID)
	if err != nil {
		return handleError(c, err)
	}

	interests, err := sc.profiles.LoadWorkoutInterests(c.Context(), identity.ID)
	if err != nil {
		interests = nil
	}
	if interests == nil {
		interests = []profile.Category{}
	}

	return c.JSON(fiber.Map{
		"profile":  view,
		"workouts": interests,
	})
}

// DashboardScreen composes the dashboard bundle: goal progress, the
// next scheduled sessions, and headline stats.
func (s *Server) DashboardScreen(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	sc := s.screenFor(identity)
	interests, err := sc.profiles.LoadWorkoutInterests(c.Context(), identity.ID)
	if err != nil {
		interests = nil
	}

	posts, err := sc.feed.Load(c.Context())
	if err != nil {
		posts = nil
	}

	active := workouts.ActiveGoals("")
	progress := 0
	for _, g := range active {
		progress += g.Progress
	}
	if len(active) > 0 {
		progress /= len(active)
	}

	return c.JSON(fiber.Map{
		"stats": fiber.Map{
			"workout_interests": len(interests),
			"active_goals":      len(active),
			"avg_goal_progress": progress,
			"day_streak":        postStreak(posts, identity.ID, time.Now()),
		},
		"goals":    active,
		"upcoming": schedule.Upcoming(time.Now()),
	})
}

// postStreak counts the consecutive calendar days ending today on which
// the member posted at least once.
func postStreak(posts []feed.Post, userID string, now time.Time) int {
	days := make(map[string]bool)
	for _, p := range posts {
		if p.UserID == userID {
			days[p.CreatedAt.In(now.Location()).Format("2006-01-02")] = true
		}
	}

	streak := 0
	for day := now; days[day.Format("2006-01-02")]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// ScheduleScreen composes the weekly schedule screen for today.
func (s *Server) ScheduleScreen(c *fiber.Ctx) error {
	if _, ok := identityFromCtx(c); !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	now := time.Now()
	return c.JSON(fiber.Map{
		"week_start": schedule.StartOfWeek(now),
		"days":       schedule.Week(now),
		"upcoming":   schedule.Upcoming(now),
	})
}
