package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestBaseEntityTouch(t *testing.T) {
	e := NewBaseEntity()
	before := e.UpdatedAt

	time.Sleep(time.Millisecond)
	e.Touch()

	assert.True(t, e.UpdatedAt.After(before))
	assert.Equal(t, before, e.CreatedAt)
}
