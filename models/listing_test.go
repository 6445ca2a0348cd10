package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionIsValid(t *testing.T) {
	for _, a := range Actions {
		assert.True(t, a.IsValid(), string(a))
	}
	assert.False(t, Action("CALL NEVER").IsValid())
}

func TestActionLabel(t *testing.T) {
	assert.Equal(t, "CALL TODAY", ActionCallToday.Label())
	assert.Equal(t, "CALL THIS WEEK", ActionCallThisWeek.Label())
	assert.Equal(t, "RESEARCH MORE", ActionResearchMore.Label())
	assert.Equal(t, "other", Action("other").Label())
}
