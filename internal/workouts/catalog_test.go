package workouts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopular(t *testing.T) {
	t.Parallel()

	t.Run("no filters returns everything", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, Popular("", ""), 4)
	})

	t.Run("category filter is case-insensitive", func(t *testing.T) {
		t.Parallel()
		entries := Popular("", "strength")
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, "Strength", e.Category)
		}
	})

	t.Run("query matches titles", func(t *testing.T) {
		t.Parallel()
		entries := Popular("  YOGA ", "")
		require.Len(t, entries, 1)
		assert.Equal(t, "Yoga Flow", entries[0].Title)
	})

	t.Run("query and category combine", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Popular("yoga", "Cardio"))
	})
}

func TestRecent(t *testing.T) {
	t.Parallel()

	assert.Len(t, Recent("", ""), 2)
	entries := Recent("leg", "")
	require.Len(t, entries, 1)
	assert.Equal(t, "Leg Day", entries[0].Title)
}

func TestGoals(t *testing.T) {
	t.Parallel()

	t.Run("active goals carry progress under 100", func(t *testing.T) {
		t.Parallel()
		goals := ActiveGoals("")
		require.Len(t, goals, 3)
		for _, g := range goals {
			assert.Less(t, g.Progress, 100)
		}
	})

	t.Run("completed goals are all at 100", func(t *testing.T) {
		t.Parallel()
		goals := CompletedGoals("")
		require.Len(t, goals, 2)
		for _, g := range goals {
			assert.Equal(t, 100, g.Progress)
		}
	})

	t.Run("query searches title and description", func(t *testing.T) {
		t.Parallel()
		byTitle := ActiveGoals("bench")
		require.Len(t, byTitle, 1)
		assert.Equal(t, "Bench Press 200lbs", byTitle[0].Title)

		byDescription := ActiveGoals("body fat")
		require.Len(t, byDescription, 1)
		assert.Equal(t, "Lose 10lbs", byDescription[0].Title)
	})
}
