/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	config "github.com/tupyy/formula/configuration"
	"github.com/tupyy/formula/internal/formula"
	"github.com/tupyy/formula/internal/grid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFile         string
	logLevel           string
	decimalSeparator   string
	parameterSeparator string
	functionNames      string
	maxRows            int
	maxColumns         int
	emptyAsZero        bool

	undoLogger func()
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "formula",
	Short:        "Spreadsheet formula engine",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfiguration(cmd, configFile); err != nil {
			return err
		}

		logger = setupLogger()
		undoLogger = zap.ReplaceGlobals(logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
		undoLogger()
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&decimalSeparator, "decimal-separator", ".", "decimal separator of numbers")
	rootCmd.PersistentFlags().StringVar(&parameterSeparator, "parameter-separator", ",", "separator of function arguments")
	rootCmd.PersistentFlags().StringVar(&functionNames, "function-names", "canonical", "function names: canonical, de or a yaml file")
	rootCmd.PersistentFlags().IntVar(&maxRows, "max-rows", grid.DefaultRows, "number of rows of each sheet")
	rootCmd.PersistentFlags().IntVar(&maxColumns, "max-columns", grid.DefaultColumns, "number of columns of each sheet")
	rootCmd.PersistentFlags().BoolVar(&emptyAsZero, "empty-as-zero", false, "read empty cells as 0 in arithmetic")
}

func setupLogger() *zap.Logger {
	loggerCfg := &zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "severity",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	atomicLogLevel, err := zap.ParseAtomicLevel(config.GetLogLevel())
	if err == nil {
		loggerCfg.Level = atomicLogLevel
	}

	plain, err := loggerCfg.Build(zap.AddStacktrace(zap.DPanicLevel))
	if err != nil {
		panic(err)
	}

	return plain
}

// newEngine builds an engine from the configured locale and function names.
func newEngine() (*formula.Engine, error) {
	locale, err := config.GetLocale()
	if err != nil {
		return nil, err
	}

	names, err := formula.NameProviderFor(config.GetFunctionNames())
	if err != nil {
		return nil, err
	}

	return formula.New(locale, formula.WithNameProvider(names))
}

func workbookOptions() []grid.Option {
	rows, cols := config.GetGridBounds()
	opts := []grid.Option{grid.WithBounds(rows, cols)}

	if v, ok := config.GetEmptyCellDefault(); ok {
		opts = append(opts, grid.WithEmptyCellDefault(v))
	}

	return opts
}

// loadWorkbook reads a .xlsx or a .yaml workbook.
func loadWorkbook(engine *formula.Engine, path string) (*grid.Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return grid.LoadXLSX(engine, path, workbookOptions()...)
	case ".yaml", ".yml":
		return grid.LoadYAML(engine, path, workbookOptions()...)
	default:
		return nil, fmt.Errorf("unsupported workbook format '%s'", path)
	}
}

// display renders the value of a cell, or its status when it is in error.
func display(c *grid.Cell) string {
	if c.Status != formula.StatusNormal {
		return "#" + strings.ToUpper(strings.ReplaceAll(c.Status.String(), " ", "_"))
	}
	return c.Value.String()
}

func firstSheet(wb *grid.Workbook) (string, error) {
	names := wb.SheetNames()
	if len(names) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheet", grid.ErrSheetNotFound)
	}
	return names[0], nil
}
