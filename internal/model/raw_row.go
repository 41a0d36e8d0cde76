package model

// RawField is one header (or selector name) and its untyped value. Values are
// string, float64, bool or nil.
type RawField struct {
	Key   string
	Value any
}

// RawRow keeps fields in source column order. It lives for one import run.
type RawRow struct {
	// Source locates the row for logs, e.g. "sheet.xlsx:12" or "dior perfume p2".
	Source string
	Fields []RawField
}

func (r *RawRow) Add(key string, value any) {
	r.Fields = append(r.Fields, RawField{Key: key, Value: value})
}

// Has reports whether a field with exactly this key exists.
func (r RawRow) Has(key string) bool {
	for _, f := range r.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}
