// Package loader implements the shared read-repair pattern every screen
// uses: fetch rows, seed defaults when the relation is empty, normalize
// nested join shapes into flat records. The same routine backs the
// community feed, the profile screen, and the dashboard, parameterized by
// relation query, default-row generator, and row normalizer.
package loader

import (
	"context"

	"fitpulse/internal/platform"
)

// Status classifies a load outcome. An empty relation is distinguished
// from a failed request so callers stop treating "empty array" as
// "everything is fine".
type Status int

const (
	// Ok means the load returned at least one row.
	Ok Status = iota
	// Empty means the load succeeded but the relation had no rows, even
	// after any configured seeding ran.
	Empty
	// Failed means the fetch (or seed) errored; the reason is in Err.
	Failed
)

// Result is the typed outcome of a Load.
type Result[T any] struct {
	Status Status
	Rows   []T
	Err    error
}

// Config parameterizes one Load.
type Config[T any] struct {
	// Fetch runs the read request.
	Fetch func(ctx context.Context) ([]platform.Row, error)
	// Seed populates default rows when Fetch returns zero rows. It runs
	// at most once per Load; a nil Seed disables seeding.
	Seed func(ctx context.Context) error
	// Normalize converts one raw row into the flat view record.
	Normalize func(platform.Row) T
}

// Load fetches, seeds-on-empty exactly once, refetches, and normalizes.
// If the post-seed fetch still yields zero rows the result is Empty; the
// seed never reruns, so an unproductive seeder cannot loop.
func Load[T any](ctx context.Context, cfg Config[T]) Result[T] {
	rows, err := cfg.Fetch(ctx)
	if err != nil {
		return Result[T]{Status: Failed, Err: err}
	}

	if len(rows) == 0 && cfg.Seed != nil {
		if err := cfg.Seed(ctx); err != nil {
			return Result[T]{Status: Failed, Err: err}
		}
		if rows, err = cfg.Fetch(ctx); err != nil {
			return Result[T]{Status: Failed, Err: err}
		}
	}

	if len(rows) == 0 {
		return Result[T]{Status: Empty}
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, cfg.Normalize(row))
	}
	return Result[T]{Status: Ok, Rows: out}
}

// ToOne normalizes a to-one relationship expansion. Stores may serialize
// the related record directly or wrap it in a single-element collection;
// both shapes yield the single record. A missing or empty expansion
// returns ok=false so the caller can substitute a sentinel.
func ToOne(value any) (platform.Row, bool) {
	switch v := value.(type) {
	case platform.Row:
		return v, true
	case map[string]any:
		return platform.Row(v), true
	case []platform.Row:
		if len(v) > 0 {
			return v[0], true
		}
	case []any:
		if len(v) > 0 {
			return ToOne(v[0])
		}
	}
	return nil, false
}

// ToMany normalizes a to-many relationship expansion into a row slice.
func ToMany(value any) []platform.Row {
	switch v := value.(type) {
	case []platform.Row:
		return v
	case []any:
		rows := make([]platform.Row, 0, len(v))
		for _, item := range v {
			if row, ok := ToOne(item); ok {
				rows = append(rows, row)
			}
		}
		return rows
	}
	return nil
}
