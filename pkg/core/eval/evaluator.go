package eval

import (
	"regexp"
	"strconv"

	"tanshin_insight/pkg/core/ratio"
	"tanshin_insight/pkg/core/statement"
)

// Color classes attached to forecast achievement.
const (
	ColorGood    = "good"
	ColorWarning = "warning"
	ColorPoor    = "poor"
)

// Finding is one categorical judgment: a stable category key plus the value
// that produced it. Wording is resolved separately so consumers can key off
// the category without parsing text.
type Finding struct {
	Metric   string   `json:"metric"`
	Category string   `json:"category"`
	Value    *float64 `json:"value,omitempty"`
}

// Evaluator applies the threshold table. Stateless apart from the table
// itself; safe for concurrent use.
type Evaluator struct {
	t Thresholds
}

func New(t Thresholds) *Evaluator {
	return &Evaluator{t: t}
}

// ColorClass buckets a forecast achievement rate. Nil yields the empty
// string: no color is assigned to an indeterminate achievement.
func (e *Evaluator) ColorClass(achievement *float64) string {
	if achievement == nil {
		return ""
	}
	switch {
	case *achievement >= e.t.AchievementGood:
		return ColorGood
	case *achievement >= e.t.AchievementWarning:
		return ColorWarning
	default:
		return ColorPoor
	}
}

// Profitability judges ROE, ROA and operating margin. Metrics whose ratio is
// nil produce no finding.
func (e *Evaluator) Profitability(set *ratio.Set) []Finding {
	var findings []Finding
	findings = appendBand(findings, "roe", set.ROE, e.t.ROE)
	findings = appendBand(findings, "roa", set.ROA, e.t.ROA)
	findings = appendBand(findings, "operating_margin", set.OperatingMargin, e.t.OperatingMargin)
	return findings
}

// Safety judges equity ratio, current ratio and fixed ratio.
func (e *Evaluator) Safety(set *ratio.Set) []Finding {
	var findings []Finding
	findings = appendBand(findings, "equity_ratio", set.EquityRatio, e.t.EquityRatio)

	if v := set.CurrentRatio; v != nil {
		switch {
		case *v >= e.t.CurrentRatio.High:
			findings = append(findings, Finding{"current_ratio", "high", v})
		case *v >= e.t.CurrentRatio.Average:
			findings = append(findings, Finding{"current_ratio", "average", v})
		default:
			findings = append(findings, Finding{"current_ratio", "liquidity_risk", v})
		}
	}
	if v := set.FixedRatio; v != nil {
		if *v <= e.t.FixedRatioMax {
			findings = append(findings, Finding{"fixed_ratio", "within_equity", v})
		} else {
			findings = append(findings, Finding{"fixed_ratio", "over_equity", v})
		}
	}
	return findings
}

// Growth emits a sign category per available growth rate plus an overall
// evaluation over their average.
func (e *Evaluator) Growth(set *ratio.Set) ([]Finding, string) {
	rates := []struct {
		metric string
		value  *float64
	}{
		{"revenue_growth", set.RevenueGrowth},
		{"operating_income_growth", set.OperatingIncomeGrowth},
		{"net_income_growth", set.NetIncomeGrowth},
	}

	var findings []Finding
	sum, n := 0.0, 0
	for _, r := range rates {
		if r.value == nil {
			continue
		}
		category := "positive"
		if *r.value < 0 {
			category = "negative"
		}
		findings = append(findings, Finding{r.metric, category, r.value})
		sum += *r.value
		n++
	}
	if n == 0 {
		return nil, ""
	}

	avg := sum / float64(n)
	switch {
	case avg >= e.t.GrowthStrong:
		return findings, "大幅な成長を示しています"
	case avg >= 0:
		return findings, "緩やかな成長を維持しています"
	default:
		return findings, "前期比で減速傾向にあります"
	}
}

// ForecastOverall summarizes the per-metric color classes into one sentence.
func (e *Evaluator) ForecastOverall(colors []string) string {
	good, poor, total := 0, 0, 0
	for _, c := range colors {
		switch c {
		case ColorGood:
			good++
		case ColorPoor:
			poor++
		}
		if c != "" {
			total++
		}
	}
	switch {
	case total == 0:
		return ""
	case good == total:
		return "全ての項目で会社予想を概ね達成しています"
	case poor > 0:
		return "会社予想を大幅に下回る項目があります"
	default:
		return "会社予想に対して概ね順調に推移しています"
	}
}

// SegmentFindings computes composition ratios and flags single-segment
// dependence. Only segments with positive revenue participate.
func (e *Evaluator) SegmentFindings(segments []statement.Segment) []Finding {
	total := 0.0
	for _, s := range segments {
		if s.Revenue > 0 {
			total += s.Revenue
		}
	}
	if total <= 0 {
		return nil
	}

	var findings []Finding
	for _, s := range segments {
		if s.Revenue <= 0 {
			continue
		}
		share := s.Revenue / total * 100
		category := "component"
		if share >= e.t.SegmentDominance {
			category = "dominant"
		}
		v := share
		findings = append(findings, Finding{s.Name, category, &v})
	}
	return findings
}

var quarterRe = regexp.MustCompile(`第([1-4１-４])四半期`)

// QuarterOf extracts the quarter number from a fiscal period string.
// Returns 0 for a full-year filing.
func QuarterOf(fiscalPeriod string) int {
	m := quarterRe.FindStringSubmatch(fiscalPeriod)
	if m == nil {
		return 0
	}
	digit := m[1]
	if r := []rune(digit)[0]; r >= '１' && r <= '４' {
		digit = string(r - '１' + '1')
	}
	q, err := strconv.Atoi(digit)
	if err != nil {
		return 0
	}
	return q
}

func appendBand(findings []Finding, metric string, v *float64, band Band) []Finding {
	if v == nil {
		return findings
	}
	switch {
	case *v >= band.High:
		return append(findings, Finding{metric, "high", v})
	case *v >= band.Average:
		return append(findings, Finding{metric, "average", v})
	default:
		return append(findings, Finding{metric, "low", v})
	}
}
