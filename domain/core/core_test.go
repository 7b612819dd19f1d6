package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunIDIsUniqueV7(t *testing.T) {
	seen := make(map[RunID]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewRunID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate run id %s", id)
		seen[id] = struct{}{}
	}

	parsed, err := uuid.Parse(NewRunID().String())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestHashIsStable(t *testing.T) {
	a := NewHash([]byte("kennziffer,region\n"))
	b := NewHash([]byte("kennziffer,region\n"))
	assert.Equal(t, a, b)
	assert.Len(t, a.String(), 64)
	assert.Equal(t, a.String()[:12], a.Short())
	assert.NotEqual(t, a, NewHash([]byte("kennziffer;region\n")))
	assert.Equal(t, "abc", Hash("abc").Short())
}

func TestStructuralErrors(t *testing.T) {
	missing := NewMissingInputError("data/raw/x.csv")
	assert.ErrorIs(t, missing, ErrMissingInput)
	assert.True(t, IsStructuralError(missing))

	empty := NewEmptySelectionError("heatmap", "Arbeitslosenquote Jüngere")
	assert.False(t, IsStructuralError(empty))
	assert.True(t, IsEmptySelection(empty))
}
