package tanshin

import (
	"log"
	"regexp"
	"strings"
)

// Extractor turns a raw filing document into an Extraction. It owns no
// state across documents; one instance per analysis request.
type Extractor struct {
	sanitizer *Sanitizer
}

func NewExtractor() *Extractor {
	return &Extractor{sanitizer: NewSanitizer()}
}

var (
	companyRe = []*regexp.Regexp{
		regexp.MustCompile(`([一-龯ぁ-んァ-ヶーA-Za-z０-９0-9]+株式会社)`),
		regexp.MustCompile(`(株式会社[一-龯ぁ-んァ-ヶーA-Za-z０-９0-9]+)`),
	}
	fiscalPeriodRe = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}年\d{1,2}月期\s*第\d四半期`),
		regexp.MustCompile(`\d{4}年\d{1,2}月期`),
		regexp.MustCompile(`第\d+期`),
	}
	yearRowRe = regexp.MustCompile(`20\d{2}年`)
)

// Extract runs the full pass: sanitize, detect format, locate line items.
// Individual line items that cannot be located are recorded in Unresolved;
// only a document with no statement structure at all fails.
func (e *Extractor) Extract(htmlContent string) (*Extraction, error) {
	doc, err := e.sanitizer.Sanitize(htmlContent)
	if err != nil {
		return nil, err
	}
	text := DocumentText(doc)

	strategy, err := DetectFormat(text)
	if err != nil {
		return nil, err
	}

	ex := &Extraction{
		Format:         strategy.format,
		Unit:           detectUnit(text),
		BalanceSheet:   map[string]Candidate{},
		Income:         map[string]Candidate{},
		PreviousIncome: map[string]Candidate{},
		Forecast:       map[string]Candidate{},
		CashFlow:       map[string]Candidate{},
	}
	ex.CompanyName = extractCompanyName(text)
	ex.FiscalPeriod = extractFiscalPeriod(text)

	tables := CollectTables(doc)
	log.Printf("[Extractor] format=%s unit=%s tables=%d", ex.Format, ex.Unit, len(tables))

	e.extractIncome(ex, tables, text, strategy)
	e.extractBalanceSheet(ex, tables, text, strategy)
	e.extractCashFlow(ex, tables, text, strategy)
	ex.Segments = extractSegments(tables)
	ex.Revisions = extractRevisions(tables, text, strategy)
	ex.Comments = extractComments(text)

	ex.Unresolved = unresolvedKeys(ex)
	if len(ex.Unresolved) > 0 {
		log.Printf("[Extractor] unresolved line items: %s", strings.Join(ex.Unresolved, ", "))
	}
	return ex, nil
}

// extractIncome locates the 連結経営成績 summary table: columns are mapped by
// header synonym, the first year-labeled row is the current period, the
// second is the prior period, and a 通期/予想 row is the company forecast.
func (e *Extractor) extractIncome(ex *Extraction, tables []*Table, text string, strategy *extractionStrategy) {
	incomeKeys := []string{KeyRevenue, KeyOperatingIncome, KeyNetIncome}

	// The forecast often sits in its own summary table, so every table is
	// scanned even after the current-period figures are found.
	for _, table := range tables {
		cols := mapColumns(table, strategy, incomeKeys)
		if len(cols) == 0 {
			continue
		}

		var yearRows [][]string
		for _, row := range table.DataRows() {
			label := rowLabel(row)
			if label == "" {
				continue
			}
			switch {
			case strings.Contains(label, "通期") || strings.Contains(label, "予想"):
				// 前回/修正前 rows of a revision table are stale forecasts.
				if !matchesAny(label, previousRowWords) {
					fillFromColumns(ex.Forecast, row, cols, table.Caption)
				}
			case yearRowRe.MatchString(label):
				yearRows = append(yearRows, row)
			}
		}

		if len(ex.Income) == 0 && len(yearRows) > 0 {
			fillFromColumns(ex.Income, yearRows[0], cols, table.Caption)
			if len(yearRows) > 1 {
				fillFromColumns(ex.PreviousIncome, yearRows[1], cols, table.Caption)
			}
		}
	}
	if len(ex.Income) > 0 {
		return
	}

	// No table matched: line-based scan, current period only.
	for _, key := range incomeKeys {
		if _, ok := ex.Income[key]; ok {
			continue
		}
		if v, label := scanTextLines(text, strategy.Synonyms(key), []string{"予想", "通期"}); v != nil {
			ex.Income[key] = Candidate{Value: *v, Source: Provenance{RowLabel: label, FromText: true}}
		}
	}
}

// extractBalanceSheet tries column-mapped summary tables (総資産/純資産
// headers), then row-label matches in attachment statements, then text lines.
func (e *Extractor) extractBalanceSheet(ex *Extraction, tables []*Table, text string, strategy *extractionStrategy) {
	bsKeys := []string{
		KeyTotalAssets, KeyTotalNetAssets,
		KeyCurrentAssets, KeyFixedAssets,
		KeyCurrentLiabilities, KeyFixedLiabilities, KeyTotalLiabilities,
	}

	// Pass 1: summary table with 総資産/純資産 columns and year rows.
	for _, table := range tables {
		cols := mapColumns(table, strategy, []string{KeyTotalAssets, KeyTotalNetAssets})
		if len(cols) == 0 {
			continue
		}
		for _, row := range table.DataRows() {
			if yearRowRe.MatchString(rowLabel(row)) {
				fillFromColumns(ex.BalanceSheet, row, cols, table.Caption)
				break
			}
		}
		if len(ex.BalanceSheet) > 0 {
			break
		}
	}

	// Pass 2: attachment statement rows (label in first cell, value beside).
	for _, table := range tables {
		for _, key := range bsKeys {
			if _, ok := ex.BalanceSheet[key]; ok {
				continue
			}
			if cand, ok := findRowValue(table, strategy.Synonyms(key)); ok {
				ex.BalanceSheet[key] = cand
			}
		}
	}

	// Pass 3: text lines.
	for _, key := range bsKeys {
		if _, ok := ex.BalanceSheet[key]; ok {
			continue
		}
		if v, label := scanTextLines(text, strategy.Synonyms(key), nil); v != nil {
			ex.BalanceSheet[key] = Candidate{Value: *v, Source: Provenance{RowLabel: label, FromText: true}}
		}
	}
}

// extractCashFlow locates the three cash-flow totals. Values keep their
// reported sign (△/▲/parentheses mean outflow).
func (e *Extractor) extractCashFlow(ex *Extraction, tables []*Table, text string, strategy *extractionStrategy) {
	cfKeys := []string{KeyOperatingCashFlow, KeyInvestingCashFlow, KeyFinancingCashFlow}

	for _, table := range tables {
		for _, key := range cfKeys {
			if _, ok := ex.CashFlow[key]; ok {
				continue
			}
			if cand, ok := findRowValue(table, strategy.Synonyms(key)); ok {
				ex.CashFlow[key] = cand
			}
		}
	}
	for _, key := range cfKeys {
		if _, ok := ex.CashFlow[key]; ok {
			continue
		}
		if v, label := scanTextLines(text, strategy.Synonyms(key), nil); v != nil {
			ex.CashFlow[key] = Candidate{Value: *v, Source: Provenance{RowLabel: label, FromText: true}}
		}
	}
}

// extractSegments pulls business-segment rows out of any table mentioning
// セグメント. Aggregate and adjustment rows are skipped.
func extractSegments(tables []*Table) []SegmentCandidate {
	for _, table := range tables {
		if !table.Contains("セグメント") {
			continue
		}

		var segments []SegmentCandidate
		for _, row := range table.DataRows() {
			name := rowLabel(row)
			if name == "" || strings.Contains(name, "合計") || strings.Contains(name, "調整") || name == "計" {
				continue
			}
			if !strings.Contains(name, "事業") && !strings.Contains(name, "サービス") && !strings.Contains(name, "部門") {
				continue
			}

			var nums []float64
			for _, cell := range row[1:] {
				nums = append(nums, extractAmounts(cell)...)
			}
			if len(nums) == 0 {
				continue
			}
			seg := SegmentCandidate{Name: name, Revenue: nums[0]}
			if len(nums) > 1 {
				oi := nums[1]
				seg.OperatingIncome = &oi
			}
			segments = append(segments, seg)
		}
		if len(segments) > 0 {
			return segments
		}
	}
	return nil
}

// =============================================================================
// TABLE HELPERS
// =============================================================================

// mapColumns maps canonical keys to grid column indexes by scanning the first
// two header rows for synonyms. Per-share figures are excluded so 純利益
// never matches 1株当たり当期純利益.
func mapColumns(table *Table, strategy *extractionStrategy, keys []string) map[string]int {
	cols := make(map[string]int)
	headerRows := [][]string{table.Header()}
	if len(table.Grid) > 1 {
		headerRows = append(headerRows, table.Grid[1])
	}
	for _, header := range headerRows {
		for idx, cell := range header {
			if cell == "" || strings.Contains(cell, "1株") || strings.Contains(cell, "１株") {
				continue
			}
			for _, key := range keys {
				if _, done := cols[key]; done {
					continue
				}
				for _, syn := range strategy.Synonyms(key) {
					if strings.Contains(cell, syn) {
						cols[key] = idx
						break
					}
				}
			}
		}
	}
	return cols
}

// fillFromColumns reads the mapped columns of one row into dst, keeping the
// first value found per key.
func fillFromColumns(dst map[string]Candidate, row []string, cols map[string]int, caption string) {
	label := rowLabel(row)
	for key, idx := range cols {
		if _, ok := dst[key]; ok {
			continue
		}
		if idx >= len(row) {
			continue
		}
		if v := firstAmount(row[idx]); v != nil {
			dst[key] = Candidate{
				Value:  *v,
				Source: Provenance{TableCaption: caption, RowLabel: label, Column: idx},
			}
		}
	}
}

// findRowValue finds a data row whose label matches one of the synonyms and
// returns the first monetary value to its right. Prefix matching keeps
// 流動資産合計 from satisfying the 資産合計 synonym.
func findRowValue(table *Table, synonyms []string) (Candidate, bool) {
	for _, row := range table.Grid {
		label := rowLabel(row)
		if label == "" {
			continue
		}
		for _, syn := range synonyms {
			if !strings.HasPrefix(label, syn) {
				continue
			}
			for idx, cell := range row[1:] {
				if v := firstAmount(cell); v != nil {
					return Candidate{
						Value:  *v,
						Source: Provenance{TableCaption: table.Caption, RowLabel: label, Column: idx + 1},
					}, true
				}
			}
		}
	}
	return Candidate{}, false
}

// rowLabel is the first non-empty cell of a row.
func rowLabel(row []string) string {
	for _, cell := range row {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// scanTextLines finds the first line containing any synonym and none of the
// exclude words, and returns its first monetary value.
func scanTextLines(text string, synonyms, exclude []string) (*float64, string) {
	for _, line := range strings.Split(text, "\n") {
		skip := false
		for _, ex := range exclude {
			if strings.Contains(line, ex) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		for _, syn := range synonyms {
			if strings.HasPrefix(strings.TrimSpace(line), syn) {
				if v := firstAmount(line); v != nil {
					return v, syn
				}
			}
		}
	}
	return nil, ""
}

// =============================================================================
// METADATA
// =============================================================================

func extractCompanyName(text string) string {
	for _, re := range companyRe {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractFiscalPeriod(text string) string {
	for _, re := range fiscalPeriodRe {
		if m := re.FindString(text); m != "" {
			return strings.Join(strings.Fields(m), "")
		}
	}
	return ""
}

func unresolvedKeys(ex *Extraction) []string {
	var missing []string
	for _, key := range []string{
		KeyCurrentAssets, KeyFixedAssets, KeyCurrentLiabilities,
		KeyFixedLiabilities, KeyTotalNetAssets,
	} {
		if _, ok := ex.BalanceSheet[key]; !ok {
			missing = append(missing, key)
		}
	}
	for _, key := range []string{KeyRevenue, KeyOperatingIncome, KeyNetIncome} {
		if _, ok := ex.Income[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
