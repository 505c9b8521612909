package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tupyy/formula/internal/formula"
	"github.com/tupyy/formula/internal/grid"
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().String("decimal-separator", ".", "")
	cmd.Flags().String("parameter-separator", ",", "")
	cmd.Flags().String("function-names", "canonical", "")
	cmd.Flags().Int("max-rows", 0, "")
	cmd.Flags().Int("max-columns", 0, "")
	cmd.Flags().Bool("empty-as-zero", false, "")
	return cmd
}

func TestDefaults(t *testing.T) {
	require.NoError(t, InitConfiguration(newCommand(), ""))

	locale, err := GetLocale()
	require.NoError(t, err)
	assert.Equal(t, formula.DefaultLocale, locale)
	assert.Equal(t, "info", GetLogLevel())
	assert.Equal(t, "canonical", GetFunctionNames())

	rows, cols := GetGridBounds()
	assert.Equal(t, grid.DefaultRows, rows)
	assert.Equal(t, grid.DefaultColumns, cols)

	_, ok := GetEmptyCellDefault()
	assert.False(t, ok)
}

func TestFlags(t *testing.T) {
	cmd := newCommand()
	require.NoError(t, cmd.Flags().Parse([]string{
		"--decimal-separator", ",",
		"--parameter-separator", ";",
		"--function-names", "de",
		"--max-rows", "10",
		"--empty-as-zero",
	}))
	require.NoError(t, InitConfiguration(cmd, ""))

	locale, err := GetLocale()
	require.NoError(t, err)
	assert.Equal(t, formula.Locale{DecimalSeparator: ',', ParameterSeparator: ';'}, locale)
	assert.Equal(t, "de", GetFunctionNames())

	rows, cols := GetGridBounds()
	assert.Equal(t, 10, rows)
	assert.Equal(t, grid.DefaultColumns, cols)

	v, ok := GetEmptyCellDefault()
	assert.True(t, ok)
	assert.Equal(t, formula.Number(0), v)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("FORMULA_MAX_COLUMNS", "5")
	t.Setenv("FORMULA_LOG_LEVEL", "debug")

	require.NoError(t, InitConfiguration(newCommand(), ""))

	_, cols := GetGridBounds()
	assert.Equal(t, 5, cols)
	assert.Equal(t, "debug", GetLogLevel())
}

func TestInvalidLocale(t *testing.T) {
	cmd := newCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--decimal-separator", ",", "--parameter-separator", ","}))
	require.NoError(t, InitConfiguration(cmd, ""))

	_, err := GetLocale()
	assert.ErrorIs(t, err, formula.ErrInvalidLocale)

	cmd = newCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--decimal-separator", ",,"}))
	require.NoError(t, InitConfiguration(cmd, ""))

	_, err = GetLocale()
	assert.ErrorIs(t, err, formula.ErrInvalidLocale)
}

func TestMissingConfigFile(t *testing.T) {
	err := InitConfiguration(newCommand(), "/does/not/exist.yaml")
	assert.Error(t, err)
}
