package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tupyy/formula/internal/formula"
	"github.com/tupyy/formula/internal/grid"
	"go.uber.org/zap"
)

const (
	prefix             = "FORMULA"
	logLevel           = "LOG_LEVEL"
	decimalSeparator   = "DECIMAL_SEPARATOR"
	parameterSeparator = "PARAMETER_SEPARATOR"
	functionNames      = "FUNCTION_NAMES"
	maxRows            = "MAX_ROWS"
	maxColumns         = "MAX_COLUMNS"
	emptyAsZero        = "EMPTY_AS_ZERO"

	defaultLogLevel      = "info"
	defaultFunctionNames = "canonical"
)

var v *viper.Viper

func InitConfiguration(cmd *cobra.Command, configFile string) error {
	v = viper.New()

	v.SetEnvPrefix(prefix)
	v.AutomaticEnv() // read in environment variables that match

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)

		err := v.ReadInConfig()
		if err != nil {
			zap.S().Errorw("failed to read config file", "error", err, "config_file", configFile)
			return fmt.Errorf("fail to read config file '%s': %w", configFile, err)
		}
		zap.S().Infow("using config file", "config_file", v.ConfigFileUsed())
	}

	// Bind the current command's flags to viper
	bindFlags(cmd, v)

	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// replace - with _ to match yaml format
		flagName := f.Name
		if strings.Contains(f.Name, "-") {
			// Environment variables can't have dashes in them, so bind them to their equivalent
			// keys with underscores.
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			v.BindEnv(flagName, fmt.Sprintf("%s_%s", prefix, envVarSuffix))
			flagName = strings.ReplaceAll(f.Name, "-", "_")
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		// and the other way around.
		if !f.Changed && v.IsSet(flagName) {
			val := v.Get(flagName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		} else if f.Changed {
			v.Set(flagName, f.Value.String())
		}
	})
}

func GetLogLevel() string {
	if !v.IsSet(logLevel) {
		return defaultLogLevel
	}

	return v.GetString(logLevel)
}

// GetLocale returns the separators formulas are written with.
func GetLocale() (formula.Locale, error) {
	locale := formula.DefaultLocale

	if v.IsSet(decimalSeparator) {
		r, err := separator(decimalSeparator)
		if err != nil {
			return locale, err
		}
		locale.DecimalSeparator = r
	}

	if v.IsSet(parameterSeparator) {
		r, err := separator(parameterSeparator)
		if err != nil {
			return locale, err
		}
		locale.ParameterSeparator = r
	}

	return locale, locale.Validate()
}

func separator(key string) (rune, error) {
	s := v.GetString(key)
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %s must be a single character, got '%s'", formula.ErrInvalidLocale, strings.ToLower(key), s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// GetFunctionNames returns the name provider: "canonical", a bundled language or a YAML file.
func GetFunctionNames() string {
	if !v.IsSet(functionNames) || v.GetString(functionNames) == "" {
		return defaultFunctionNames
	}

	return v.GetString(functionNames)
}

// GetGridBounds returns the size of every sheet.
func GetGridBounds() (rows, cols int) {
	rows, cols = grid.DefaultRows, grid.DefaultColumns

	if v.IsSet(maxRows) && v.GetInt(maxRows) > 0 {
		rows = v.GetInt(maxRows)
	}
	if v.IsSet(maxColumns) && v.GetInt(maxColumns) > 0 {
		cols = v.GetInt(maxColumns)
	}

	return rows, cols
}

// GetEmptyCellDefault returns the value empty cells take in arithmetic, if any.
func GetEmptyCellDefault() (formula.Value, bool) {
	if v.GetBool(emptyAsZero) {
		return formula.Number(0), true
	}
	return formula.Nil(), false
}
