package server

import (
	"fitpulse/internal/cache"
	"fitpulse/internal/models"
	"fitpulse/internal/platform"
	"fitpulse/internal/profile"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the signed-in member's profile record. The
// profile is served through the cache-aside layer.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	sc := s.screenFor(identity)
	var view profile.View
	err := cache.Aside(c.Context(), cache.ProfileKey(identity.ID), &view, cache.ProfileTTL, func() error {
		loaded, err := sc.profiles.LoadProfile(c.Context(), identity.ID)
		if err != nil {
			return err
		}
		view = *loaded
		return nil
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(view)
}

// GetMyWorkoutInterests returns the workout categories the member is
// linked to, seeding sensible defaults for a brand-new account.
func (s *Server) GetMyWorkoutInterests(c *fiber.Ctx) error {
	identity, ok := identityFromCtx(c)
	if !ok {
		return handleError(c, models.NewUnauthorizedError("Authentication required"))
	}

	sc := s.screenFor(identity)
	var categories []profile.Category
	err := cache.Aside(c.Context(), cache.UserCategoriesKey(identity.ID), &categories, cache.CategoriesTTL, func() error {
		loaded, err := sc.profiles.LoadWorkoutInterests(c.Context(), identity.ID)
		if err != nil {
			return err
		}
		categories = loaded
		return nil
	})
	if err != nil {
		return handleError(c, err)
	}
	if categories == nil {
		categories = []profile.Category{}
	}

	return c.JSON(fiber.Map{"categories": categories})
}

// GetWorkoutCategories returns the full workout category catalog.
func (s *Server) GetWorkoutCategories(c *fiber.Ctx) error {
	var categories []profile.Category
	err := cache.Aside(c.Context(), cache.CategoriesKey(), &categories, cache.CategoriesTTL, func() error {
		rows, err := s.store.Select(c.Context(), platform.SelectQuery{
			Relation: "workout_categories",
			Columns:  []string{"id", "name"},
			Order:    &platform.Order{Column: "name"},
		})
		if err != nil {
			return err
		}
		for _, row := range rows {
			categories = append(categories, profile.Category{
				ID:   row.String("id"),
				Name: row.String("name"),
			})
		}
		return nil
	})
	if err != nil {
		return handleError(c, models.NewInternalError(err))
	}
	if categories == nil {
		categories = []profile.Category{}
	}

	return c.JSON(fiber.Map{"categories": categories})
}
