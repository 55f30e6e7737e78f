package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteraction_AllDay(t *testing.T) {
	assert.True(t, Interaction{DurationMinutes: 0}.AllDay())
	assert.True(t, Interaction{DurationMinutes: -5}.AllDay())
	assert.False(t, Interaction{DurationMinutes: 30}.AllDay())
}
