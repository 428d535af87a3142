package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorValid(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		expected bool
	}{
		{
			name:     "empty actor",
			actor:    Actor(""),
			expected: false,
		},
		{
			name:     "whitespace only",
			actor:    Actor("   "),
			expected: false,
		},
		{
			name:     "tab and newline",
			actor:    Actor("\t\n"),
			expected: false,
		},
		{
			name:     "simple identity",
			actor:    Actor("alice"),
			expected: true,
		},
		{
			name:     "namespaced identity",
			actor:    Actor("market:settlement"),
			expected: true,
		},
		{
			name:     "identity with inner spaces",
			actor:    Actor("alice smith"),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actor.Valid())
		})
	}
}

func TestActorString(t *testing.T) {
	assert.Equal(t, "alice", Actor("alice").String())
	assert.Equal(t, "", Actor("").String())
}
