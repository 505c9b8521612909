package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tupyy/formula/internal/formula"
	"github.com/tupyy/formula/internal/grid"
	"github.com/tupyy/formula/internal/recalc"
	"go.uber.org/zap"
)

var (
	evalWorkbook string
	evalCell     string
)

var evalCmd = &cobra.Command{
	Use:   "eval EXPRESSION",
	Short: "Evaluate one formula",
	Example: `  formula eval "=ROUND(PI()*2, 3)"
  formula eval --workbook book.yaml --cell Sheet1!D1 "=SUM(A1:A10)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		var wb *grid.Workbook
		if evalWorkbook != "" {
			wb, err = loadWorkbook(engine, evalWorkbook)
			if err != nil {
				return err
			}
			if _, err := recalc.New(engine).RecalculateAll(cmd.Context(), wb); err != nil {
				return err
			}
		} else {
			wb = grid.New(engine, workbookOptions()...)
			if _, err := wb.AddSheet("Sheet1"); err != nil {
				return err
			}
		}

		cell, err := grid.ParseCell(evalCell)
		if err != nil {
			return err
		}
		if cell.Sheet == "" {
			if cell.Sheet, err = firstSheet(wb); err != nil {
				return err
			}
		}
		name, ok := wb.Sheet(cell.Sheet)
		if !ok {
			return fmt.Errorf("%w: '%s'", grid.ErrSheetNotFound, cell.Sheet)
		}
		cell.Sheet = name

		node, err := engine.Parse(args[0])
		if err != nil {
			return err
		}
		zap.S().Debugw("formula parsed", "cell", cell.String(), "formula", engine.Format(node))

		v, err := engine.Evaluate(formula.NewContext(cell, wb.Grid()), node)
		if err != nil {
			return fmt.Errorf("%s: %w", formula.StatusOf(err), err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVarP(&evalWorkbook, "workbook", "w", "", "workbook file (.yaml or .xlsx)")
	evalCmd.Flags().StringVar(&evalCell, "cell", "A1", "cell the formula is evaluated in")
	rootCmd.AddCommand(evalCmd)
}
