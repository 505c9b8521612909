package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tupyy/formula/internal/formula"
	"github.com/tupyy/formula/internal/grid"
	"github.com/tupyy/formula/internal/recalc"
	"github.com/tupyy/formula/internal/refactor"
)

var (
	fillFrom string
	fillTo   string
)

var fillCmd = &cobra.Command{
	Use:     "fill FILE",
	Short:   "Copy the formula of a cell into a range, shifting its relative references",
	Example: `  formula fill book.yaml --from Sheet1!B1 --to B2:B10`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		wb, err := loadWorkbook(engine, args[0])
		if err != nil {
			return err
		}

		source, err := grid.ParseCell(fillFrom)
		if err != nil {
			return err
		}
		if source.Sheet == "" {
			if source.Sheet, err = firstSheet(wb); err != nil {
				return err
			}
		}
		if name, ok := wb.Sheet(source.Sheet); ok {
			source.Sheet = name
		}

		target, err := grid.ParseRange(fillTo)
		if err != nil {
			return err
		}
		if name, ok := wb.Sheet(target.Sheet); ok {
			target.Sheet = name
		}

		r := recalc.New(engine)
		if _, err := r.RecalculateAll(cmd.Context(), wb); err != nil {
			return err
		}

		if err := refactor.New(engine).Reuse(wb, source, target); err != nil {
			return err
		}

		if _, err := r.Recalculate(cmd.Context(), wb); err != nil {
			return err
		}

		if target.Sheet == "" {
			target.Sheet = source.Sheet
		}
		target.Each(func(p formula.CellPosition) bool {
			if c, ok := wb.Cell(p); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p, c.Text, display(c))
			}
			return true
		})

		return nil
	},
}

func init() {
	fillCmd.Flags().StringVar(&fillFrom, "from", "", "cell holding the formula")
	fillCmd.Flags().StringVar(&fillTo, "to", "", "range receiving the formula")
	fillCmd.MarkFlagRequired("from")
	fillCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(fillCmd)
}
