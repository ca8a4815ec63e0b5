package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	resolver := NewResolver(
		Static("session-key"),
		Static("stored-key"),
		Static("build-key"),
	)

	key, err := resolver.Resolve("override-key")
	require.NoError(t, err)
	assert.Equal(t, "override-key", key, "override should outrank every source")

	key, err = resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "session-key", key, "first provider should win without an override")
}

func TestResolveSkipsEmptySources(t *testing.T) {
	resolver := NewResolver(
		Static(""),
		Static("   \t"),
		Static("lowest-key"),
	)

	key, err := resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "lowest-key", key)
}

func TestResolveTrimsWhitespace(t *testing.T) {
	resolver := NewResolver(Static("  padded-key \n"))

	key, err := resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "padded-key", key)
}

func TestResolveMissingCredential(t *testing.T) {
	resolver := NewResolver(Static(""), Static("  "))

	_, err := resolver.Resolve("   ")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = NewResolver().Resolve("")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AGENRP_TEST_KEY", "env-key")
	resolver := NewResolver(FromEnv("AGENRP_TEST_KEY"))

	key, err := resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	t.Setenv("AGENRP_TEST_KEY", "")
	_, err = resolver.Resolve("")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestProviderFuncReadsLiveValue(t *testing.T) {
	value := ""
	resolver := NewResolver(ProviderFunc(func() string { return value }))

	_, err := resolver.Resolve("")
	require.ErrorIs(t, err, ErrMissingCredential)

	value = "late-key"
	key, err := resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "late-key", key)
}
