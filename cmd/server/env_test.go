package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		t.Setenv("SECUREHELLO_TEST_VAR", "value")
		assert.Equal(t, "value", getEnvOrDefault("SECUREHELLO_TEST_VAR", "fallback"))
	})

	t.Run("unset", func(t *testing.T) {
		assert.Equal(t, "fallback", getEnvOrDefault("SECUREHELLO_UNSET_VAR", "fallback"))
	})
}
