// Package sheet reads spreadsheet exports and JSON feeds into raw rows.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"perfumeprj/internal/model"
)

var (
	ErrNoSpreadsheet     = errors.New("no spreadsheet found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Read loads every data row of path. The first row (or each object's keys for
// JSON) supplies the field names.
func Read(path string) ([]model.RawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	case ".json":
		return readJSON(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func readXLSX(path string) ([]model.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheetName, path, err)
	}
	return fromGrid(filepath.Base(path), rows), nil
}

func readCSV(path string) ([]model.RawRow, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var grid [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		grid = append(grid, rec)
	}
	if len(grid) > 0 && len(grid[0]) > 0 {
		grid[0][0] = strings.TrimPrefix(grid[0][0], "\ufeff")
	}
	return fromGrid(filepath.Base(path), grid), nil
}

// fromGrid turns a header row plus data rows into raw rows. Blank cells and
// fully blank lines are dropped.
func fromGrid(name string, grid [][]string) []model.RawRow {
	if len(grid) == 0 {
		return nil
	}
	header := grid[0]

	var out []model.RawRow
	for i, line := range grid[1:] {
		row := model.RawRow{Source: fmt.Sprintf("%s:%d", name, i+2)}
		for col, cell := range line {
			if col >= len(header) || strings.TrimSpace(cell) == "" {
				continue
			}
			row.Add(header[col], cell)
		}
		if len(row.Fields) > 0 {
			out = append(out, row)
		}
	}
	return out
}

func readJSON(path string) ([]model.RawRow, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("%s: invalid json", path)
	}

	// a single object is read as a one-row feed
	name := filepath.Base(path)
	var out []model.RawRow
	for i, item := range gjson.ParseBytes(b).Array() {
		if !item.IsObject() {
			continue
		}
		row := model.RawRow{Source: fmt.Sprintf("%s[%d]", name, i)}
		item.ForEach(func(k, v gjson.Result) bool {
			row.Add(k.String(), jsonValue(v))
			return true
		})
		out = append(out, row)
	}
	return out, nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	default:
		// nested arrays such as notes are flattened to a list string
		if v.IsArray() {
			var parts []string
			for _, e := range v.Array() {
				parts = append(parts, e.String())
			}
			return strings.Join(parts, ", ")
		}
		return v.Raw
	}
}

// ReadOverrides loads [{brand, name, image_url}]. Entries missing any of the
// three are ignored.
func ReadOverrides(path string) ([]model.ImageOverride, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc := gjson.ParseBytes(b)
	if !gjson.ValidBytes(b) || !doc.IsArray() {
		return nil, fmt.Errorf("%s: expected a JSON array", path)
	}

	var out []model.ImageOverride
	for _, item := range doc.Array() {
		o := model.ImageOverride{
			Brand:    strings.TrimSpace(item.Get("brand").String()),
			Name:     strings.TrimSpace(item.Get("name").String()),
			ImageURL: strings.TrimSpace(item.Get("image_url").String()),
		}
		if o.Brand == "" || o.Name == "" || o.ImageURL == "" {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// extPreference orders formats when several files share the newest mtime.
var extPreference = map[string]int{".xlsx": 0, ".xlsm": 1, ".csv": 2, ".json": 3}

// Latest returns the most recently modified readable spreadsheet in dir.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w in %s: %v", ErrNoSpreadsheet, dir, err)
	}

	type candidate struct {
		path string
		mod  int64
		rank int
	}
	var cands []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		rank, ok := extPreference[strings.ToLower(filepath.Ext(e.Name()))]
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		cands = append(cands, candidate{
			path: filepath.Join(dir, e.Name()),
			mod:  info.ModTime().UnixNano(),
			rank: rank,
		})
	}
	if len(cands) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoSpreadsheet, dir)
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].mod != cands[j].mod {
			return cands[i].mod > cands[j].mod
		}
		return cands[i].rank < cands[j].rank
	})
	return cands[0].path, nil
}
