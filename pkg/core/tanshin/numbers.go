package tanshin

import (
	"regexp"
	"strconv"
	"strings"
)

// Accounting negatives in Japanese filings: △1,234 / ▲1,234 / (1,234).
var (
	largeNumberRe = regexp.MustCompile(`[（(]?[△▲-]?[0-9０-９]{1,3}(?:[,，][0-9０-９]{3})+[）)]?`)
	numericRe     = regexp.MustCompile(`[0-9.]+`)
)

// parseNumber converts a formatted cell string to a float. Returns nil for
// empty cells, dashes, dates and anything that is not a number.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(normalizeWidth(s))
	if s == "" || s == "-" || s == "—" || s == "―" || s == "－" {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "△") || strings.HasPrefix(s, "▲") {
		negative = true
		s = strings.TrimPrefix(strings.TrimPrefix(s, "△"), "▲")
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}
	// Stray half of a parenthesis pair carries no sign information.
	s = strings.Trim(s, "()")
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "円", "")
	s = strings.TrimSpace(s)

	match := numericRe.FindString(s)
	if match == "" || match != s {
		return nil
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	if negative {
		val = -val
	}
	return &val
}

// extractAmounts pulls comma-grouped monetary values out of a cell or text
// line, preserving accounting-style signs. Small percent-like figures
// (e.g. the "2.5" in a % change column) are intentionally not matched.
func extractAmounts(s string) []float64 {
	s = normalizeWidth(s)
	var out []float64
	for _, raw := range largeNumberRe.FindAllString(s, -1) {
		if v := parseNumber(raw); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// firstAmount returns the first comma-grouped monetary value in s, or nil.
func firstAmount(s string) *float64 {
	vals := extractAmounts(s)
	if len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// normalizeWidth folds full-width digits and separators to ASCII so the same
// regexes work on both 1,234 and １，２３４.
func normalizeWidth(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '０' && r <= '９':
			b.WriteRune(r - '０' + '0')
		case r == '，':
			b.WriteRune(',')
		case r == '．':
			b.WriteRune('.')
		case r == '％':
			b.WriteRune('%')
		case r == '（':
			b.WriteRune('(')
		case r == '）':
			b.WriteRune(')')
		case r == '　':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// detectUnit finds the monetary scale marker in the document text.
// Defaults to 千円 when no marker is present, matching the dominant
// convention of attached statements.
func detectUnit(text string) Unit {
	millionPatterns := []string{"（百万円）", "(百万円)", "単位：百万円", "単位:百万円", "百万円）", "百万円)"}
	thousandPatterns := []string{"（千円）", "(千円)", "単位：千円", "単位:千円", "千円）", "千円)"}

	for _, p := range millionPatterns {
		if strings.Contains(text, p) {
			return UnitMillionYen
		}
	}
	for _, p := range thousandPatterns {
		if strings.Contains(text, p) {
			return UnitThousandYen
		}
	}
	return UnitThousandYen
}
