package connections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggested(t *testing.T) {
	t.Parallel()

	suggestions := Suggested("U1")
	require.Len(t, suggestions, 3)
	for _, s := range suggestions {
		assert.NotEmpty(t, s.FullName)
		assert.GreaterOrEqual(t, s.MutualConnections, 0)
	}
}

func TestSuggested_ExcludesSelf(t *testing.T) {
	t.Parallel()

	suggestions := Suggested("2")
	require.Len(t, suggestions, 2)
	for _, s := range suggestions {
		assert.NotEqual(t, "2", s.ID)
	}
}
