package tanshin

import (
	"regexp"
	"strings"
)

var (
	revisionDateRe = regexp.MustCompile(`\d{4}年\s*\d{1,2}月\s*\d{1,2}日`)
	reasonHeaderRe = regexp.MustCompile(`修正の理由|理由`)
)

// Revision tables appear in forecast-revision notices (業績予想の修正).
// Two layouts exist: a 修正前/修正後 row pair, and a 前回/今回 row pair.
var (
	previousRowWords = []string{"修正前", "前回発表予想", "前回予想", "前回"}
	revisedRowWords  = []string{"修正後", "今回修正予想", "今回予想", "今回"}
)

// extractRevisions locates forecast-revision row pairs. Each matched table
// produces at most one candidate; documents without a revision notice
// produce none.
func extractRevisions(tables []*Table, text string, strategy *extractionStrategy) []RevisionCandidate {
	if !strings.Contains(text, "修正") {
		return nil
	}

	var revisions []RevisionCandidate
	for _, table := range tables {
		rev := revisionFromTable(table, strategy)
		if rev == nil {
			continue
		}
		rev.RevisionDate = revisionDateRe.FindString(text)
		rev.Reason = revisionReason(text)
		revisions = append(revisions, *rev)
	}
	return revisions
}

// revisionFromTable pairs the before/after rows of one table. The value
// columns must line up, which the virtual grid guarantees.
func revisionFromTable(table *Table, strategy *extractionStrategy) *RevisionCandidate {
	var prevRow, revRow []string
	for _, row := range table.Grid {
		label := rowLabel(row)
		if label == "" {
			continue
		}
		if prevRow == nil && matchesAny(label, previousRowWords) {
			prevRow = row
			continue
		}
		if revRow == nil && matchesAny(label, revisedRowWords) {
			revRow = row
		}
	}
	if prevRow == nil || revRow == nil {
		return nil
	}

	cols := mapColumns(table, strategy, []string{KeyRevenue, KeyOperatingIncome, KeyNetIncome})
	if len(cols) == 0 {
		return nil
	}

	rev := &RevisionCandidate{}
	if idx, ok := cols[KeyRevenue]; ok {
		rev.PreviousRevenue = columnAmount(prevRow, idx)
		rev.RevisedRevenue = columnAmount(revRow, idx)
	}
	if idx, ok := cols[KeyOperatingIncome]; ok {
		rev.PreviousOperatingIncome = columnAmount(prevRow, idx)
		rev.RevisedOperatingIncome = columnAmount(revRow, idx)
	}
	if idx, ok := cols[KeyNetIncome]; ok {
		rev.PreviousNetIncome = columnAmount(prevRow, idx)
		rev.RevisedNetIncome = columnAmount(revRow, idx)
	}
	if rev.RevisedRevenue == nil && rev.RevisedOperatingIncome == nil && rev.RevisedNetIncome == nil {
		return nil
	}
	return rev
}

// revisionReason returns the paragraph following the 修正の理由 heading,
// truncated to a single line.
func revisionReason(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !reasonHeaderRe.MatchString(line) || len([]rune(line)) > 30 {
			continue
		}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if len([]rune(next)) > 20 {
				return next
			}
		}
	}
	return ""
}

func columnAmount(row []string, idx int) *float64 {
	if idx >= len(row) {
		return nil
	}
	return firstAmount(row[idx])
}

func matchesAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
