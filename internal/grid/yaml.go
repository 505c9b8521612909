package grid

import (
	"fmt"
	"os"
	"sort"

	"github.com/tupyy/formula/internal/formula"
	"sigs.k8s.io/yaml"
)

// Document is the YAML form of a workbook:
//
//	sheets:
//	  - name: Sheet1
//	    cells:
//	      A1: 2
//	      A2: "=A1*3"
//	    merged: ["C1:D2"]
//	    names:
//	      Local: A1:A2
//	names:
//	  Total: Sheet1!A2
type Document struct {
	Sheets []SheetDocument    `json:"sheets"`
	Names  map[string]string `json:"names,omitempty"`
}

type SheetDocument struct {
	Name   string                 `json:"name"`
	Rows   int                    `json:"rows,omitempty"`
	Cols   int                    `json:"cols,omitempty"`
	Cells  map[string]interface{} `json:"cells,omitempty"`
	Merged []string               `json:"merged,omitempty"`
	Names  map[string]string      `json:"names,omitempty"`
}

// LoadYAML reads a workbook from a YAML file.
func LoadYAML(engine *formula.Engine, path string, opts ...Option) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook '%s': %w", path, err)
	}
	return ParseYAML(engine, data, opts...)
}

// ParseYAML builds a workbook from its YAML document.
func ParseYAML(engine *formula.Engine, data []byte, opts ...Option) (*Workbook, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}

	w := New(engine, opts...)

	// sheets first, formulas may reference any of them
	for _, sd := range doc.Sheets {
		s, err := w.AddSheet(sd.Name)
		if err != nil {
			return nil, err
		}
		if sd.Rows > 0 {
			s.rows = sd.Rows
		}
		if sd.Cols > 0 {
			s.cols = sd.Cols
		}
	}

	// names before cells so formulas register their dependencies on them
	for _, sd := range doc.Sheets {
		for name, ref := range sd.Names {
			if err := w.defineName(sd.Name, name, ref); err != nil {
				return nil, err
			}
		}
	}
	for name, ref := range doc.Names {
		if err := w.defineName("", name, ref); err != nil {
			return nil, err
		}
	}

	for _, sd := range doc.Sheets {
		for _, address := range sortedKeys(sd.Cells) {
			p, err := ParseCell(address)
			if err != nil {
				return nil, err
			}
			p.Sheet = sd.Name

			switch v := sd.Cells[address].(type) {
			case string:
				err = w.Set(p, v)
			default:
				err = w.SetValue(p, formula.FromPrimitive(v))
			}
			if err != nil {
				return nil, err
			}
		}

		for _, ref := range sd.Merged {
			r, err := ParseRange(ref)
			if err != nil {
				return nil, err
			}
			r.Sheet = sd.Name
			if err := w.Merge(r); err != nil {
				return nil, err
			}
		}
	}

	return w, nil
}

func (w *Workbook) defineName(scope, name, ref string) error {
	r, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if r.Sheet == "" {
		r.Sheet = scope
	}
	if r.Sheet == "" {
		return fmt.Errorf("%w: name '%s' refers to '%s' without a sheet", ErrSheetNotFound, name, ref)
	}
	if canonical, found := w.Sheet(r.Sheet); found {
		r.Sheet = canonical
	}
	return w.DefineName(scope, name, r)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
