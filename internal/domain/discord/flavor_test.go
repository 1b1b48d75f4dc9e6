package discord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseFlavor accepts the closed set case-insensitively and rejects the rest.
func TestParseFlavor(t *testing.T) {
	t.Parallel()

	f, err := ParseFlavor(" PTB ")
	require.NoError(t, err)
	require.Equal(t, FlavorPTB, f)

	f, err = ParseFlavor("canary")
	require.NoError(t, err)
	require.Equal(t, FlavorCanary, f)

	_, err = ParseFlavor("stable")
	require.ErrorIs(t, err, ErrUnknownFlavor)
}

// TestFlavor_PflagValue checks the zero value defaults to canary and Set validates input.
func TestFlavor_PflagValue(t *testing.T) {
	t.Parallel()

	var f Flavor
	require.Equal(t, "canary", f.String())

	require.NoError(t, f.Set("ptb"))
	require.Equal(t, "ptb", f.String())

	require.Error(t, f.Set("development"))
	require.Equal(t, FlavorPTB, f)
}

// TestNormalizeVersion trims whitespace and maps empty input to the unknown sentinel.
func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.0.1", NormalizeVersion(" 0.0.1\n"))
	require.Equal(t, UnknownVersion, NormalizeVersion(""))
	require.Equal(t, UnknownVersion, NormalizeVersion(" \t\n"))
}

// TestStateString covers named and out-of-range states.
func TestStateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "up-to-date", StateUpToDate.String())
	require.Equal(t, "unknown", State(42).String())
}
