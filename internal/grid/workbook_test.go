package grid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tupyy/formula/internal/formula"
	"github.com/tupyy/formula/internal/grid"
)

func at(sheet string, row, col int) formula.CellPosition {
	return formula.CellPosition{Sheet: sheet, Row: row, Col: col}
}

var _ = Describe("workbook", func() {
	var (
		engine *formula.Engine
		wb     *grid.Workbook
	)

	BeforeEach(func() {
		var err error
		engine, err = formula.New(formula.DefaultLocale)
		Expect(err).To(BeNil())

		wb = grid.New(engine, grid.WithBounds(20, 10))
		_, err = wb.AddSheet("Sheet1")
		Expect(err).To(BeNil())
		_, err = wb.AddSheet("Data")
		Expect(err).To(BeNil())
	})

	It("reads typed text as literals", func() {
		Expect(wb.Set(at("Sheet1", 0, 0), "12.5")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 0, 1), "true")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 0, 2), "hello")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 0, 3), "NaN")).To(Succeed())

		v, ok := wb.CellValue(at("Sheet1", 0, 0))
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(formula.Number(12.5)))

		v, _ = wb.CellValue(at("Sheet1", 0, 1))
		Expect(v).To(Equal(formula.Bool(true)))

		v, _ = wb.CellValue(at("Sheet1", 0, 2))
		Expect(v).To(Equal(formula.String("hello")))

		v, _ = wb.CellValue(at("Sheet1", 0, 3))
		Expect(v).To(Equal(formula.String("NaN")))

		_, ok = wb.CellValue(at("Sheet1", 5, 5))
		Expect(ok).To(BeFalse())
	})

	It("rejects unknown sheets and cells out of bounds", func() {
		Expect(wb.Set(at("Nope", 0, 0), "1")).To(MatchError(grid.ErrSheetNotFound))
		Expect(wb.Set(at("Sheet1", 20, 0), "1")).To(MatchError(grid.ErrOutOfBounds))

		_, err := wb.AddSheet("sheet1")
		Expect(err).To(MatchError(grid.ErrSheetExists))
	})

	It("resolves sheet names case insensitively", func() {
		name, ok := wb.Sheet("DATA")
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("Data"))
		Expect(wb.SheetNames()).To(Equal([]string{"Sheet1", "Data"}))

		rows, cols := wb.Bounds("data")
		Expect(rows).To(Equal(20))
		Expect(cols).To(Equal(10))
	})

	It("stores unparsable formulas with the SyntaxError status", func() {
		Expect(wb.Set(at("Sheet1", 0, 0), "=1+")).To(Succeed())

		c, ok := wb.Cell(at("Sheet1", 0, 0))
		Expect(ok).To(BeTrue())
		Expect(c.IsFormula()).To(BeTrue())
		Expect(c.Node).To(BeNil())
		Expect(c.Status).To(Equal(formula.StatusSyntaxError))

		_, ok = wb.Formula(at("Sheet1", 0, 0))
		Expect(ok).To(BeFalse())
	})

	It("tracks the dependents of a cell", func() {
		Expect(wb.Set(at("Sheet1", 0, 0), "1")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 0, 1), "=A1*2")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 0, 2), "=SUM(A1:B1)")).To(Succeed())
		Expect(wb.Set(at("Data", 0, 0), "=Sheet1!C1")).To(Succeed())

		deps := wb.Dependents(at("Sheet1", 0, 0))
		Expect(deps).To(ConsistOf(at("Sheet1", 0, 0), at("Sheet1", 0, 1), at("Sheet1", 0, 2), at("Data", 0, 0)))

		order, cyclic := wb.Order(deps)
		Expect(cyclic).To(BeEmpty())
		Expect(order[0]).To(Equal(at("Sheet1", 0, 0)))
		Expect(order[3]).To(Equal(at("Data", 0, 0)))

		// replacing a formula drops its old precedents
		Expect(wb.Set(at("Sheet1", 0, 1), "=5")).To(Succeed())
		Expect(wb.Dependents(at("Sheet1", 0, 0))).To(ConsistOf(at("Sheet1", 0, 0), at("Sheet1", 0, 2), at("Data", 0, 0)))
	})

	It("tracks the dependents of large ranges", func() {
		wb = grid.New(engine)
		_, err := wb.AddSheet("Sheet1")
		Expect(err).To(BeNil())

		Expect(wb.Set(at("Sheet1", 0, 0), "1")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 0, 1), "=SUM(A1:A1048576)")).To(Succeed())
		Expect(wb.Dependents(at("Sheet1", 0, 0))).To(ConsistOf(at("Sheet1", 0, 0), at("Sheet1", 0, 1)))

		// cells written after the formula are linked as well
		Expect(wb.Set(at("Sheet1", 500000, 0), "2")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 600000, 0), "=3")).To(Succeed())
		Expect(wb.Dependents(at("Sheet1", 500000, 0))).To(ConsistOf(at("Sheet1", 500000, 0), at("Sheet1", 0, 1)))
		Expect(wb.Dependents(at("Sheet1", 600000, 0))).To(ConsistOf(at("Sheet1", 600000, 0), at("Sheet1", 0, 1)))

		Expect(wb.Set(at("Sheet1", 7, 3), "4")).To(Succeed())
		Expect(wb.Dependents(at("Sheet1", 7, 3))).NotTo(ContainElement(at("Sheet1", 0, 1)))

		// replacing the formula drops the range
		Expect(wb.Set(at("Sheet1", 0, 1), "=5")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 700000, 0), "6")).To(Succeed())
		Expect(wb.Dependents(at("Sheet1", 700000, 0))).NotTo(ContainElement(at("Sheet1", 0, 1)))
	})

	It("reports circular references", func() {
		Expect(wb.Set(at("Sheet1", 0, 0), "=B1")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 0, 1), "=A1")).To(Succeed())

		_, cyclic := wb.Order(wb.Dependents(at("Sheet1", 0, 0)))
		Expect(cyclic).To(ConsistOf(at("Sheet1", 0, 0), at("Sheet1", 0, 1)))
	})

	It("queues written cells for recalculation", func() {
		Expect(wb.Set(at("Sheet1", 0, 0), "1")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 1, 0), "=NOW()")).To(Succeed())

		Expect(wb.TakeDirty()).To(Equal([]formula.CellPosition{at("Sheet1", 1, 0), at("Sheet1", 0, 0)}))
		Expect(wb.TakeDirty()).To(BeEmpty())
		Expect(wb.Volatile()).To(Equal([]formula.CellPosition{at("Sheet1", 1, 0)}))
		Expect(wb.Formulas()).To(Equal([]formula.CellPosition{at("Sheet1", 1, 0)}))
	})

	It("treats localized volatile functions as volatile", func() {
		de, err := formula.NameProviderFor("de")
		Expect(err).To(BeNil())
		engine.SelectNameProvider(de)

		Expect(wb.Set(at("Sheet1", 0, 0), "=JETZT()")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 1, 0), "=SUMME(1,2)")).To(Succeed())

		Expect(wb.Volatile()).To(Equal([]formula.CellPosition{at("Sheet1", 0, 0)}))
	})

	It("resolves named ranges", func() {
		r := formula.NewRange("Data", 0, 0, 2, 0)
		Expect(wb.DefineName("", "Prices", r)).To(Succeed())
		Expect(wb.DefineName("Sheet1", "Local", formula.NewRange("Sheet1", 0, 0, 0, 0))).To(Succeed())
		Expect(wb.DefineName("Nope", "X", r)).To(MatchError(grid.ErrSheetNotFound))

		got, ok := wb.NamedRange("Sheet1", "prices")
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(r))

		_, ok = wb.NamedRange("Data", "Local")
		Expect(ok).To(BeFalse())

		Expect(wb.Names("Sheet1")).To(Equal([]string{"LOCAL", "PRICES"}))

		Expect(wb.Set(at("Data", 1, 0), "4")).To(Succeed())
		Expect(wb.Set(at("Sheet1", 3, 3), "=SUM(Prices)")).To(Succeed())
		Expect(wb.Dependents(at("Data", 1, 0))).To(ContainElement(at("Sheet1", 3, 3)))

		v, err := engine.Evaluate(formula.NewContext(at("Sheet1", 3, 3), wb.Grid()), mustParse(engine, "=SUM(Prices)"))
		Expect(err).To(BeNil())
		Expect(v).To(Equal(formula.Number(4)))
	})

	It("merges cells", func() {
		Expect(wb.Merge(formula.NewRange("Sheet1", 0, 0, 1, 1))).To(Succeed())
		Expect(wb.Merge(formula.NewRange("Sheet1", 1, 1, 2, 2))).To(MatchError(grid.ErrOverlap))

		Expect(wb.IsSpanned(at("Sheet1", 0, 0))).To(BeFalse())
		Expect(wb.IsSpanned(at("sheet1", 1, 1))).To(BeTrue())
		Expect(wb.IsSpanned(at("Sheet1", 2, 2))).To(BeFalse())
	})

	It("evaluates against the workbook", func() {
		Expect(wb.Set(at("Sheet1", 0, 0), "2")).To(Succeed())
		ctx := formula.NewContext(at("Sheet1", 4, 4), wb.Grid())

		v, err := engine.Evaluate(ctx, mustParse(engine, "=A1*3"))
		Expect(err).To(BeNil())
		Expect(v).To(Equal(formula.Number(6)))

		_, err = engine.Evaluate(ctx, mustParse(engine, "=A9+1"))
		Expect(formula.StatusOf(err)).To(Equal(formula.StatusInvalidValue))

		_, err = engine.Evaluate(ctx, mustParse(engine, "=Z1"))
		Expect(formula.StatusOf(err)).To(Equal(formula.StatusInvalidReference))
	})

	It("supplies a default for empty cells when configured", func() {
		wb = grid.New(engine, grid.WithEmptyCellDefault(formula.Number(0)))
		_, err := wb.AddSheet("Sheet1")
		Expect(err).To(BeNil())

		v, err := engine.Evaluate(formula.NewContext(at("Sheet1", 0, 0), wb.Grid()), mustParse(engine, "=B7+1"))
		Expect(err).To(BeNil())
		Expect(v).To(Equal(formula.Number(1)))
	})
})

var _ = Describe("yaml workbook", func() {
	It("loads sheets, cells, names and merged regions", func() {
		engine, err := formula.New(formula.DefaultLocale)
		Expect(err).To(BeNil())

		doc := []byte(`
sheets:
  - name: Sheet1
    rows: 50
    cells:
      A1: 2
      A2: "=A1*3"
      A3: "text"
      A4: true
    merged: ["C1:D2"]
    names:
      First: A1
  - name: Data
    cells:
      B2: "=Total+1"
names:
  Total: Sheet1!A1:A2
`)
		wb, err := grid.ParseYAML(engine, doc)
		Expect(err).To(BeNil())

		Expect(wb.SheetNames()).To(Equal([]string{"Sheet1", "Data"}))
		rows, _ := wb.Bounds("Sheet1")
		Expect(rows).To(Equal(50))

		v, _ := wb.CellValue(at("Sheet1", 0, 0))
		Expect(v).To(Equal(formula.Number(2)))
		v, _ = wb.CellValue(at("Sheet1", 3, 0))
		Expect(v).To(Equal(formula.Bool(true)))

		_, ok := wb.Formula(at("Sheet1", 1, 0))
		Expect(ok).To(BeTrue())
		Expect(wb.IsSpanned(at("Sheet1", 1, 3))).To(BeTrue())

		r, ok := wb.NamedRange("Data", "total")
		Expect(ok).To(BeTrue())
		Expect(r).To(Equal(formula.NewRange("Sheet1", 0, 0, 1, 0)))

		Expect(wb.Dependents(at("Sheet1", 0, 0))).To(ContainElement(at("Data", 1, 1)))
	})

	It("fails on bad addresses", func() {
		engine, err := formula.New(formula.DefaultLocale)
		Expect(err).To(BeNil())

		_, err = grid.ParseYAML(engine, []byte("sheets:\n  - name: S\n    cells:\n      1A: 2\n"))
		Expect(err).To(MatchError(grid.ErrInvalidAddress))
	})
})

func mustParse(engine *formula.Engine, text string) formula.Node {
	n, err := engine.Parse(text)
	Expect(err).To(BeNil())
	return n
}
