package report

import (
	"fmt"

	"tanshin_insight/pkg/core/eval"
	"tanshin_insight/pkg/core/ratio"
	"tanshin_insight/pkg/core/statement"
)

// Summaries is the summarizer's contribution, if any.
type Summaries struct {
	Management string
	Outlook    string
}

// Assemble builds the response from the canonical statement, the computed
// ratios and the evaluator. Pure and deterministic: identical inputs produce
// byte-identical JSON.
func Assemble(cs *statement.CanonicalStatement, set *ratio.Set, ev *eval.Evaluator, summaries *Summaries) *Response {
	resp := &Response{
		CompanyName: cs.Meta.CompanyName,
		FiscalYear:  cs.Meta.FiscalPeriod,
	}

	resp.Results.Profitability = Profitability{
		ROE:             round(set.ROE),
		ROA:             round(set.ROA),
		OperatingMargin: round(set.OperatingMargin),
		Comments:        comments(ev.Profitability(set)),
	}

	bs := cs.BalanceSheet
	resp.Results.Safety = Safety{
		EquityRatio:        round(set.EquityRatio),
		CurrentRatio:       round(set.CurrentRatio),
		FixedRatio:         round(set.FixedRatio),
		CurrentAssets:      round(bs.CurrentAssets),
		FixedAssets:        round(bs.FixedAssets),
		CurrentLiabilities: round(bs.CurrentLiabilities),
		FixedLiabilities:   round(bs.FixedLiabilities),
		TotalNetAssets:     round(bs.TotalNetAssets),
		Comments:           comments(ev.Safety(set)),
	}

	resp.Results.KeyMetrics = KeyMetrics{
		Revenue:         metric(cs.Income.Revenue, cs.PreviousIncome.Revenue, set.RevenueGrowth),
		OperatingIncome: metric(cs.Income.OperatingIncome, cs.PreviousIncome.OperatingIncome, set.OperatingIncomeGrowth),
		NetIncome:       metric(cs.Income.NetIncome, cs.PreviousIncome.NetIncome, set.NetIncomeGrowth),
	}

	resp.Results.CashFlow = cashFlowSection(cs.CashFlow, set)
	resp.Results.Growth = growthSection(set, ev)
	resp.Results.ForecastComparison = forecastSection(cs, set, ev)
	resp.Results.SegmentAnalysis = segmentSection(cs.Segments, ev)
	resp.Results.CompanyComments = commentsSection(summaries)

	return resp
}

func cashFlowSection(cf statement.CashFlowStatement, set *ratio.Set) *CashFlowSection {
	if cf.Operating == nil && cf.Investing == nil && cf.Financing == nil {
		return nil
	}
	return &CashFlowSection{Data: CashFlowData{
		OperatingCashFlow: round(cf.Operating),
		InvestingCashFlow: round(cf.Investing),
		FinancingCashFlow: round(cf.Financing),
		FreeCashFlow:      round(set.FreeCashFlow),
		Type:              eval.CashFlowType(cf),
	}}
}

func growthSection(set *ratio.Set, ev *eval.Evaluator) *GrowthSection {
	findings, overall := ev.Growth(set)
	if len(findings) == 0 {
		return nil
	}
	return &GrowthSection{
		HasComparison:         true,
		RevenueGrowth:         round(set.RevenueGrowth),
		OperatingIncomeGrowth: round(set.OperatingIncomeGrowth),
		NetIncomeGrowth:       round(set.NetIncomeGrowth),
		Comments:              comments(findings),
		OverallEvaluation:     overall,
	}
}

func forecastSection(cs *statement.CanonicalStatement, set *ratio.Set, ev *eval.Evaluator) *ForecastSection {
	fc := cs.Forecast
	hasForecast := fc.Revenue != nil || fc.OperatingIncome != nil || fc.NetIncome != nil
	if !hasForecast && len(cs.Revisions) == 0 {
		return nil
	}

	section := &ForecastSection{HasForecast: hasForecast}
	var colors []string

	add := func(name string, actual, forecast, achievement *float64) *ForecastMetric {
		if forecast == nil && actual == nil {
			return nil
		}
		m := &ForecastMetric{
			Actual:          round(actual),
			Forecast:        round(forecast),
			AchievementRate: round(achievement),
		}
		if color := ev.ColorClass(achievement); color != "" {
			m.Evaluation = &Evaluation{
				Comment:    eval.AchievementComment(name, color, ratio.Round2(*achievement)),
				ColorClass: color,
			}
			colors = append(colors, color)
		}
		return m
	}

	section.Revenue = add("revenue", cs.Income.Revenue, fc.Revenue, set.RevenueAchievement)
	section.OperatingIncome = add("operating_income", cs.Income.OperatingIncome, fc.OperatingIncome, set.OperatingIncomeAchievement)
	section.NetIncome = add("net_income", cs.Income.NetIncome, fc.NetIncome, set.NetIncomeAchievement)

	for _, rev := range cs.Revisions {
		section.Revisions = append(section.Revisions, Revision{
			RevisionDate:            rev.RevisionDate,
			PreviousRevenue:         round(rev.PreviousRevenue),
			RevisedRevenue:          round(rev.RevisedRevenue),
			PreviousOperatingIncome: round(rev.PreviousOperatingIncome),
			RevisedOperatingIncome:  round(rev.RevisedOperatingIncome),
			PreviousNetIncome:       round(rev.PreviousNetIncome),
			RevisedNetIncome:        round(rev.RevisedNetIncome),
			Reason:                  rev.Reason,
		})
	}

	section.OverallEvaluation = ev.ForecastOverall(colors)
	// Mid-year filings are judged against a full-year forecast, so the
	// overall line carries the elapsed quarter for context.
	if q := eval.QuarterOf(cs.Meta.FiscalPeriod); q >= 1 && q <= 3 && section.OverallEvaluation != "" {
		section.OverallEvaluation = fmt.Sprintf("第%d四半期時点: %s", q, section.OverallEvaluation)
	}
	return section
}

func segmentSection(segments []statement.Segment, ev *eval.Evaluator) *SegmentSection {
	if len(segments) == 0 {
		return nil
	}
	section := &SegmentSection{HasSegments: true}
	for _, seg := range segments {
		section.Segments = append(section.Segments, SegmentItem{
			Name:    seg.Name,
			Revenue: ratio.Round2(seg.Revenue),
			Margin:  round(ratio.SegmentMargin(seg)),
		})
	}
	section.Comments = comments(ev.SegmentFindings(segments))
	return section
}

func commentsSection(summaries *Summaries) *CommentsSection {
	if summaries == nil || (summaries.Management == "" && summaries.Outlook == "") {
		return nil
	}
	return &CommentsSection{
		HasSummaries:      true,
		ManagementSummary: summaries.Management,
		OutlookSummary:    summaries.Outlook,
	}
}

func metric(current, previous, growth *float64) Metric {
	return Metric{
		Current:    round(current),
		Previous:   round(previous),
		GrowthRate: round(growth),
	}
}

// comments guarantees a non-nil slice so the JSON field is always an array.
func comments(findings []eval.Finding) []string {
	out := eval.Comments(findings)
	if out == nil {
		out = []string{}
	}
	return out
}

// round applies presentation rounding, preserving nil.
func round(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := ratio.Round2(*v)
	return &r
}
