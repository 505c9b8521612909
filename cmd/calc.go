package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tupyy/formula/internal/grid"
	"github.com/tupyy/formula/internal/recalc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var calcCmd = &cobra.Command{
	Use:   "calc FILE...",
	Short: "Recalculate workbooks and print every cell",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputs := make([]bytes.Buffer, len(args))

		// one engine per workbook, engines share nothing
		g, ctx := errgroup.WithContext(cmd.Context())
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				return calc(ctx, path, &outputs[i])
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		for i := range outputs {
			if _, err := outputs[i].WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		return nil
	},
}

func calc(ctx context.Context, path string, out io.Writer) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	wb, err := loadWorkbook(engine, path)
	if err != nil {
		return err
	}

	res, err := recalc.New(engine).RecalculateAll(ctx, wb)
	if err != nil {
		return err
	}
	zap.S().Infow("workbook recalculated", "path", path, "cascade_id", res.CascadeID, "evaluated", res.Evaluated)

	fmt.Fprintf(out, "# %s\n", path)
	printCells(out, wb)

	return nil
}

func printCells(out io.Writer, wb *grid.Workbook) {
	for _, sheet := range wb.SheetNames() {
		for _, p := range wb.Cells(sheet) {
			c, _ := wb.Cell(p)
			if c.IsFormula() {
				fmt.Fprintf(out, "%s\t%s\t%s\n", p, c.Text, display(c))
			} else {
				fmt.Fprintf(out, "%s\t%s\n", p, display(c))
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(calcCmd)
}
