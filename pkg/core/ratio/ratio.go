// Package ratio computes financial indicators from a canonical statement.
// Every function is pure. A nil result means the ratio is undefined for this
// filing, either because an input was not reported or because the denominator
// is zero; callers must propagate the nil rather than substitute a zero.
package ratio

import (
	"math"

	"tanshin_insight/pkg/core/statement"
)

// Set is the full indicator set for one filing, in percent unless noted.
type Set struct {
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	EquityRatio     *float64 `json:"equity_ratio,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	FixedRatio      *float64 `json:"fixed_ratio,omitempty"`

	RevenueGrowth         *float64 `json:"revenue_growth,omitempty"`
	OperatingIncomeGrowth *float64 `json:"operating_income_growth,omitempty"`
	NetIncomeGrowth       *float64 `json:"net_income_growth,omitempty"`

	RevenueAchievement         *float64 `json:"revenue_achievement,omitempty"`
	OperatingIncomeAchievement *float64 `json:"operating_income_achievement,omitempty"`
	NetIncomeAchievement       *float64 `json:"net_income_achievement,omitempty"`

	// FreeCashFlow is in millions of yen, not percent.
	FreeCashFlow *float64 `json:"free_cash_flow,omitempty"`
}

// Compute derives every indicator the statement supports.
func Compute(cs *statement.CanonicalStatement) *Set {
	bs := cs.BalanceSheet
	return &Set{
		ROE:             percentOf(cs.Income.NetIncome, bs.TotalNetAssets),
		ROA:             percentOf(cs.Income.NetIncome, bs.TotalAssets),
		OperatingMargin: percentOf(cs.Income.OperatingIncome, cs.Income.Revenue),
		EquityRatio:     percentOf(bs.TotalNetAssets, bs.TotalAssets),
		CurrentRatio:    percentOf(bs.CurrentAssets, bs.CurrentLiabilities),
		FixedRatio:      percentOf(bs.FixedAssets, bs.TotalNetAssets),

		RevenueGrowth:         Growth(cs.Income.Revenue, cs.PreviousIncome.Revenue),
		OperatingIncomeGrowth: Growth(cs.Income.OperatingIncome, cs.PreviousIncome.OperatingIncome),
		NetIncomeGrowth:       Growth(cs.Income.NetIncome, cs.PreviousIncome.NetIncome),

		RevenueAchievement:         Achievement(cs.Income.Revenue, cs.Forecast.Revenue),
		OperatingIncomeAchievement: Achievement(cs.Income.OperatingIncome, cs.Forecast.OperatingIncome),
		NetIncomeAchievement:       Achievement(cs.Income.NetIncome, cs.Forecast.NetIncome),

		FreeCashFlow: FreeCashFlow(cs.CashFlow),
	}
}

// Growth is the period-over-period change in percent. Undefined when either
// period is missing or the base period is zero.
func Growth(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	v := (*current - *previous) / *previous * 100
	return &v
}

// Achievement is actual over forecast in percent. Undefined when the
// forecast is missing or zero.
func Achievement(actual, forecast *float64) *float64 {
	if actual == nil || forecast == nil || *forecast == 0 {
		return nil
	}
	v := *actual / *forecast * 100
	return &v
}

// FreeCashFlow is operating plus investing cash flow. Undefined unless both
// totals were reported.
func FreeCashFlow(cf statement.CashFlowStatement) *float64 {
	if cf.Operating == nil || cf.Investing == nil {
		return nil
	}
	v := *cf.Operating + *cf.Investing
	return &v
}

// SegmentMargin is one segment's operating margin in percent.
func SegmentMargin(seg statement.Segment) *float64 {
	if seg.OperatingIncome == nil || seg.Revenue <= 0 {
		return nil
	}
	v := *seg.OperatingIncome / seg.Revenue * 100
	return &v
}

// Round2 rounds to two decimals for presentation. Computation stays at full
// precision; only the assembler rounds.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentOf serves the level ratios, where a non-positive denominator (a
// company in negative net assets, say) makes the ratio meaningless.
func percentOf(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil || *denominator <= 0 {
		return nil
	}
	v := *numerator / *denominator * 100
	return &v
}
