package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 10, Clamp(3, 10, 45))
	assert.Equal(t, 45, Clamp(99, 10, 45))
	assert.Equal(t, 20, Clamp(20, 10, 45))
	assert.Equal(t, 1.5, Clamp(1.5, 1.0, 2.0))
}

func TestNormalizeFlagName(t *testing.T) {
	assert.Equal(t, "--sender", normalizeFlagName("sender"))
	assert.Equal(t, "--sender", normalizeFlagName("-sender"))
	assert.Equal(t, "--sender", normalizeFlagName("--sender"))
	assert.Equal(t, "--sender", normalizeFlagName("  sender  "))
}

func TestMissingFlagNames(t *testing.T) {
	t.Cleanup(func() { requiredFlags = map[*string]string{} })

	filled := "value"
	empty := ""
	blank := "   "
	RequiredFlag(&filled, "sender")
	RequiredFlag(&empty, "recipient")
	RequiredFlag(&blank, "provider")

	assert.Equal(t, []string{"--provider", "--recipient"}, missingFlagNames())
}
