// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("MOVIEINFO_TEST_STRING", "value")
	t.Setenv("MOVIEINFO_TEST_EMPTY", "")
	t.Setenv("MOVIEINFO_TEST_INT", "42")
	t.Setenv("MOVIEINFO_TEST_BAD_INT", "forty-two")
	t.Setenv("MOVIEINFO_TEST_BOOL", "false")
	t.Setenv("MOVIEINFO_TEST_DURATION", "1m30s")
	t.Setenv("MOVIEINFO_TEST_FLOAT", "0.5")
	t.Setenv("MOVIEINFO_TEST_LIST", " a, ,b ")

	assert.Equal(t, "value", ParseString("MOVIEINFO_TEST_STRING", "def"))
	assert.Equal(t, "def", ParseString("MOVIEINFO_TEST_EMPTY", "def"))
	assert.Equal(t, "def", ParseString("MOVIEINFO_TEST_UNSET", "def"))

	assert.Equal(t, 42, ParseInt("MOVIEINFO_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("MOVIEINFO_TEST_BAD_INT", 1))

	assert.False(t, ParseBool("MOVIEINFO_TEST_BOOL", true))
	assert.True(t, ParseBool("MOVIEINFO_TEST_UNSET", true))

	assert.Equal(t, 90*time.Second, ParseDuration("MOVIEINFO_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, ParseDuration("MOVIEINFO_TEST_STRING", time.Second))

	assert.InDelta(t, 0.5, ParseFloat("MOVIEINFO_TEST_FLOAT", 1), 1e-9)
	assert.Equal(t, []string{"a", "b"}, ParseStringList("MOVIEINFO_TEST_LIST", nil))
	assert.Nil(t, ParseStringList("MOVIEINFO_TEST_UNSET", nil))
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, isSensitiveKey(EnvRedisPassword))
	assert.True(t, isSensitiveKey(EnvMongoURI))
	assert.False(t, isSensitiveKey(EnvListen))
}
