package recalc_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tupyy/formula/internal/formula"
	"github.com/tupyy/formula/internal/grid"
	"github.com/tupyy/formula/internal/recalc"
	"github.com/tupyy/formula/internal/refactor"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func at(row, col int) formula.CellPosition {
	return formula.CellPosition{Sheet: "Sheet1", Row: row, Col: col}
}

var _ = Describe("recalculation", func() {
	var (
		engine *formula.Engine
		wb     *grid.Workbook
		r      *recalc.Recalculator
		now    *clock
		ctx    context.Context
	)

	value := func(p formula.CellPosition) formula.Value {
		v, _ := wb.CellValue(p)
		return v
	}

	BeforeEach(func() {
		var err error
		now = &clock{now: time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)}
		engine, err = formula.New(formula.DefaultLocale, formula.WithClock(now))
		Expect(err).To(BeNil())

		wb = grid.New(engine, grid.WithBounds(100, 26))
		_, err = wb.AddSheet("Sheet1")
		Expect(err).To(BeNil())

		r = recalc.New(engine)
		ctx = context.Background()
	})

	It("evaluates formulas after their precedents", func() {
		// written in reverse order of evaluation
		Expect(wb.Set(at(0, 2), "=B1+1")).To(Succeed())
		Expect(wb.Set(at(0, 1), "=A1*2")).To(Succeed())
		Expect(wb.Set(at(0, 0), "5")).To(Succeed())

		res, err := r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(res.Evaluated).To(Equal(2))
		Expect(res.CascadeID).ToNot(BeEmpty())
		Expect(value(at(0, 1))).To(Equal(formula.Number(10)))
		Expect(value(at(0, 2))).To(Equal(formula.Number(11)))

		Expect(wb.Set(at(0, 0), "1")).To(Succeed())
		_, err = r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(value(at(0, 2))).To(Equal(formula.Number(3)))
	})

	It("is idempotent", func() {
		Expect(wb.Set(at(0, 0), "2")).To(Succeed())
		Expect(wb.Set(at(1, 0), "=SUM(A1,A1)")).To(Succeed())

		_, err := r.RecalculateAll(ctx, wb)
		Expect(err).To(BeNil())
		first := value(at(1, 0))

		res, err := r.RecalculateAll(ctx, wb)
		Expect(err).To(BeNil())
		Expect(res.Evaluated).To(Equal(1))
		Expect(value(at(1, 0))).To(Equal(first))

		res, err = r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(res.Evaluated).To(Equal(0))
	})

	It("marks circular references", func() {
		Expect(wb.Set(at(0, 0), "=B1+1")).To(Succeed())
		Expect(wb.Set(at(0, 1), "=A1+1")).To(Succeed())
		Expect(wb.Set(at(0, 2), "=B1*2")).To(Succeed())
		Expect(wb.Set(at(0, 3), "7")).To(Succeed())

		res, err := r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(res.Circular).To(ConsistOf(at(0, 0), at(0, 1), at(0, 2)))
		Expect(wb.CellStatus(at(0, 0))).To(Equal(formula.StatusCircularReference))
		Expect(wb.CellStatus(at(0, 2))).To(Equal(formula.StatusCircularReference))

		// breaking the cycle recovers every cell
		Expect(wb.Set(at(0, 0), "=D1")).To(Succeed())
		_, err = r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(wb.CellStatus(at(0, 2))).To(Equal(formula.StatusNormal))
		Expect(value(at(0, 2))).To(Equal(formula.Number(16)))
	})

	It("propagates the status of a precedent in error", func() {
		Expect(wb.Set(at(0, 0), `="a"*2`)).To(Succeed())
		Expect(wb.Set(at(0, 1), "=A1+1")).To(Succeed())
		Expect(wb.Set(at(0, 2), "=1+")).To(Succeed())
		Expect(wb.Set(at(0, 3), "=C1")).To(Succeed())

		_, err := r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(wb.CellStatus(at(0, 0))).To(Equal(formula.StatusInvalidValue))
		Expect(wb.CellStatus(at(0, 1))).To(Equal(formula.StatusInvalidValue))
		Expect(wb.CellStatus(at(0, 2))).To(Equal(formula.StatusSyntaxError))
		Expect(wb.CellStatus(at(0, 3))).To(Equal(formula.StatusSyntaxError))
	})

	It("recalculates volatile formulas on every pass", func() {
		Expect(wb.Set(at(0, 0), "=YEAR(NOW())")).To(Succeed())
		Expect(wb.Set(at(0, 1), "=A1+1")).To(Succeed())

		_, err := r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(value(at(0, 1))).To(Equal(formula.Number(2023)))

		now.now = now.now.AddDate(3, 0, 0)
		_, err = r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(value(at(0, 1))).To(Equal(formula.Number(2026)))
	})

	It("recalculates formulas written by the refactorer", func() {
		Expect(wb.Set(at(0, 0), "1")).To(Succeed())
		Expect(wb.Set(at(1, 0), "2")).To(Succeed())
		Expect(wb.Set(at(0, 1), "=A1*10")).To(Succeed())
		_, err := r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())

		err = refactor.New(engine).Reuse(wb, at(0, 1), formula.NewRange("Sheet1", 1, 1, 1, 1))
		Expect(err).To(BeNil())

		_, err = r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		c, ok := wb.Cell(at(1, 1))
		Expect(ok).To(BeTrue())
		Expect(c.Text).To(Equal("=A2*10"))
		Expect(c.Value).To(Equal(formula.Number(20)))
	})

	It("keeps the invalid reference status of a reused formula", func() {
		Expect(wb.Set(at(0, 0), "1")).To(Succeed())
		Expect(wb.Set(at(1, 1), "=IF(TRUE,1,A1)")).To(Succeed())
		_, err := r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(value(at(1, 1))).To(Equal(formula.Number(1)))

		// A1 moves above the first row, in a branch that is never evaluated
		err = refactor.New(engine).Reuse(wb, at(1, 1), formula.NewRange("Sheet1", 0, 1, 0, 1))
		Expect(err).To(BeNil())

		_, err = r.Recalculate(ctx, wb)
		Expect(err).To(BeNil())
		Expect(wb.CellStatus(at(0, 1))).To(Equal(formula.StatusInvalidReference))
		c, ok := wb.Cell(at(0, 1))
		Expect(ok).To(BeTrue())
		Expect(c.Text).To(ContainSubstring("#REF!"))
		Expect(c.Value.IsNil()).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		Expect(wb.Set(at(0, 0), "=1")).To(Succeed())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := r.Recalculate(cancelled, wb)
		Expect(err).To(MatchError(context.Canceled))
	})
})
