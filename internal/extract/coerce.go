package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	priceJunk    = regexp.MustCompile(`[^0-9.,]`)
	priceMinus   = regexp.MustCompile(`^[^0-9]*-`)
	leadingInt   = regexp.MustCompile(`^\s*(\d+)`)
	listSplitter = regexp.MustCompile(`[,;|]`)
	spaceRun     = regexp.MustCompile(`[\s_\-]+`)
)

// normalizeKey folds case and treats runs of whitespace, '_' and '-' as one space.
func normalizeKey(k string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(strings.ToLower(k), " "))
}

// Text renders a raw value as a trimmed string. Empty means absent.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(strings.ReplaceAll(t, "\u00a0", " "))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// ParsePrice drops currency symbols, spaces and thousands separators. When
// both ',' and '.' occur the right-most one is the decimal separator; a lone
// ',' is decimal unless it is followed by exactly three digits or repeats.
// A '-' before the first digit makes the result negative.
func ParsePrice(v any) (decimal.Decimal, bool) {
	if f, ok := v.(float64); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(f), true
	}

	text := Text(v)
	negative := priceMinus.MatchString(text)
	s := strings.Trim(priceJunk.ReplaceAllString(text, ""), ".,")
	if s == "" {
		return decimal.Decimal{}, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 || len(s)-lastComma-1 == 3 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// ParseRating takes the leading integer, so "4/5" and "4.5" both give 4.
func ParseRating(v any) (int, bool) {
	if f, ok := v.(float64); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(f), true
	}
	m := leadingInt.FindStringSubmatch(Text(v))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseAvailability understands booleans, 0/1 and stock phrases.
func ParseAvailability(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		if t == 1 {
			return true, true
		}
		if t == 0 {
			return false, true
		}
		return false, false
	}

	s := strings.ToLower(Text(v))
	switch {
	case s == "":
		return false, false
	case strings.Contains(s, "out of stock"), strings.Contains(s, "unavailable"):
		return false, true
	case strings.Contains(s, "in stock"):
		return true, true
	}
	switch s {
	case "true", "yes", "y", "1", "available":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	}
	return false, false
}

// SplitList splits on ',', ';' and '|' and drops empty tokens.
func SplitList(v any) []string {
	var out []string
	for _, tok := range listSplitter.Split(Text(v), -1) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
