package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator(t *testing.T) {
	var g UUIDGenerator
	a, b := g.New(), g.New()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}
