package slackconfig_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"libslack/slackconfig"
	"libslack/slackerr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := slackconfig.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, slackconfig.Silent, cfg.LogLevel)
	require.True(t, cfg.IsDevelopment())
}

func TestIsDevelopmentIsCaseInsensitive(t *testing.T) {
	cfg := slackconfig.Default()
	cfg.Environment = "Production"
	require.False(t, cfg.IsDevelopment())

	cfg.Environment = "DEVELOPMENT"
	require.True(t, cfg.IsDevelopment())
}

func TestLoadYAMLOverridesEnvironment(t *testing.T) {
	cfg, err := slackconfig.Load(strings.NewReader(`environment: "production"`))
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.False(t, cfg.IsDevelopment())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	yamlContent := `
map_size_hint: 101
growth_load_factor: 1.5
debug_lockers: true
log_level: "DEBUG"
`
	cfg, err := slackconfig.Load(strings.NewReader(yamlContent))
	require.NoError(t, err)
	require.Equal(t, 101, cfg.MapSizeHint)
	require.Equal(t, 1.5, cfg.GrowthLoadFactor)
	require.True(t, cfg.DebugLockers)
	require.Equal(t, slackconfig.Debug, cfg.LogLevel)
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	cfg, err := slackconfig.Load(strings.NewReader(`debug_lockers: true`))
	require.NoError(t, err)
	require.True(t, cfg.DebugLockers)
	require.Equal(t, 11, cfg.MapSizeHint)
	require.Equal(t, 2.0, cfg.GrowthLoadFactor)
}

func TestValidateRejectsNegativeSizeHint(t *testing.T) {
	cfg := slackconfig.Default()
	cfg.MapSizeHint = -1
	err := cfg.Validate()
	require.Error(t, err)
	var slackErr *slackerr.Error
	require.ErrorAs(t, err, &slackErr)
	require.Equal(t, slackerr.Invalid, slackErr.Kind)
}

func TestParseLogLevelUnknown(t *testing.T) {
	_, err := slackconfig.ParseLogLevel("TRACE")
	require.Error(t, err)
	var slackErr *slackerr.Error
	require.ErrorAs(t, err, &slackErr)
	require.Equal(t, slackerr.Invalid, slackErr.Kind)
}
