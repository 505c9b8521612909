package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = `
sheets:
  - name: Sheet1
    cells:
      A1: 2
      A2: 3
      B1: "=SUM(A1:A2)"
      D5: "=B1/"
`

func run(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeBook(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "book.yaml")
	require.NoError(t, os.WriteFile(path, []byte(book), 0600))
	return path
}

func TestCalc(t *testing.T) {
	out, err := run(t, "calc", writeBook(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Sheet1!A1\t2\n")
	assert.Contains(t, out, "Sheet1!B1\t=SUM(A1:A2)\t5\n")
	assert.Contains(t, out, "Sheet1!D5\t=B1/\t#SYNTAX_ERROR\n")
}

func TestEval(t *testing.T) {
	out, err := run(t, "eval", "--workbook", writeBook(t), "--cell", "Sheet1!C1", "=B1*10")
	require.NoError(t, err)
	assert.Equal(t, "50\n", out)

	_, err = run(t, "eval", "--workbook", "", "--cell", "A1", "=NOPE(1)+")
	assert.Error(t, err)
}

func TestFill(t *testing.T) {
	out, err := run(t, "fill", writeBook(t), "--from", "B1", "--to", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1!C1\t=SUM(B1:B2)\t5\n", out)
}
