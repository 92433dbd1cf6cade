// Package profile loads the member profile screen: the profile record
// itself and the member's workout-interest links, with the same
// seed-on-empty policy the feed uses.
package profile

import (
	"context"
	"log/slog"

	"fitpulse/internal/loader"
	"fitpulse/internal/models"
	"fitpulse/internal/notify"
	"fitpulse/internal/platform"
	"fitpulse/internal/session"
)

// View is the flattened profile view model.
type View struct {
	ID           string   `json:"id"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	AvatarURL    *string  `json:"avatar_url"`
	Bio          *string  `json:"bio"`
	FitnessLevel *string  `json:"fitness_level"`
	Goals        []string `json:"goals"`
	PhoneNumber  *string  `json:"phone_number"`
}

// Category is a workout category the member is linked to.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// defaultInterestCount is how many category links are seeded for a
// member with none.
const defaultInterestCount = 3

// Loader fetches profile-screen data through the platform contract.
type Loader struct {
	store    platform.Store
	gate     *session.Gate
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewLoader creates a Loader bound to the given store and session gate.
func NewLoader(store platform.Store, gate *session.Gate, notifier notify.Notifier, logger *slog.Logger) *Loader {
	return &Loader{store: store, gate: gate, notifier: notifier, logger: logger}
}

// LoadProfile fetches one profile record by id. Failures are logged,
// raise one notification, and surface as an absent profile.
func (l *Loader) LoadProfile(ctx context.Context, id string) (*View, error) {
	if _, err := session.Require(l.gate); err != nil {
		return nil, err
	}

	rows, err := l.store.Select(ctx, platform.SelectQuery{
		Relation: "profiles",
		Filters:  []platform.Filter{platform.Eq("id", id)},
		Limit:    1,
	})
	if err != nil {
		l.logger.Error("profile load failed", slog.String("id", id), slog.String("error", err.Error()))
		l.notifier.Notify(notify.KindError, "Error loading profile", "Unable to load your profile information.")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("Profile", id)
	}

	view := normalizeProfile(rows[0])
	return &view, nil
}

// LoadWorkoutInterests fetches the member's linked workout categories.
// A member with no links gets the first three categories linked by
// default, then one reload; if the catalog itself is empty the result
// is empty. Failures are logged and surface as an empty list.
func (l *Loader) LoadWorkoutInterests(ctx context.Context, userID string) ([]Category, error) {
	if _, err := session.Require(l.gate); err != nil {
		return nil, err
	}

	links := loader.Load(ctx, loader.Config[string]{
		Fetch: func(ctx context.Context) ([]platform.Row, error) {
			return l.store.Select(ctx, platform.SelectQuery{
				Relation: "user_workouts",
				Columns:  []string{"category_id"},
				Filters:  []platform.Filter{platform.Eq("user_id", userID)},
			})
		},
		Seed: func(ctx context.Context) error {
			return l.seedDefaultInterests(ctx, userID)
		},
		Normalize: func(row platform.Row) string {
			return row.String("category_id")
		},
	})

	switch links.Status {
	case loader.Failed:
		l.logger.Error("workout interests load failed",
			slog.String("user_id", userID), slog.String("error", links.Err.Error()))
		l.notifier.Notify(notify.KindError, "Error loading workouts", "Unable to load your workout information.")
		return nil, links.Err
	case loader.Empty:
		return nil, nil
	}

	rows, err := l.store.Select(ctx, platform.SelectQuery{
		Relation: "workout_categories",
		Columns:  []string{"id", "name"},
		Filters:  []platform.Filter{platform.In("id", links.Rows)},
	})
	if err != nil {
		l.logger.Error("workout categories load failed", slog.String("error", err.Error()))
		l.notifier.Notify(notify.KindError, "Error loading workouts", "Unable to load your workout information.")
		return nil, err
	}

	categories := make([]Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, Category{ID: row.String("id"), Name: row.String("name")})
	}
	return categories, nil
}

func (l *Loader) seedDefaultInterests(ctx context.Context, userID string) error {
	categories, err := l.store.Select(ctx, platform.SelectQuery{
		Relation: "workout_categories",
		Columns:  []string{"id", "name"},
		Limit:    defaultInterestCount,
	})
	if err != nil {
		return err
	}

	for _, category := range categories {
		if _, err := l.store.Insert(ctx, "user_workouts", platform.Row{
			"user_id":     userID,
			"category_id": category.String("id"),
		}, nil); err != nil {
			return err
		}
	}
	return nil
}

func normalizeProfile(row platform.Row) View {
	view := View{
		ID:       row.String("id"),
		FullName: row.String("full_name"),
		Email:    row.String("email"),
	}
	view.AvatarURL = optString(row, "avatar_url")
	view.Bio = optString(row, "bio")
	view.FitnessLevel = optString(row, "fitness_level")
	view.PhoneNumber = optString(row, "phone_number")
	if goals, ok := row["goals"].([]string); ok {
		view.Goals = goals
	}
	return view
}

func optString(row platform.Row, column string) *string {
	if v, ok := row[column].(string); ok && v != "" {
		return &v
	}
	return nil
}
