// Package report assembles the externally-consumed analysis response.
// Presence implies validity: optional sections are pointer fields that are
// omitted entirely when their canonical inputs are missing, never emitted
// with all-null contents.
package report

// Response is the top-level analyze payload.
type Response struct {
	CompanyName string  `json:"company_name"`
	FiscalYear  string  `json:"fiscal_year"`
	Results     Results `json:"results"`
}

// Results groups the metric sections. Profitability, safety and key metrics
// are always present once extraction succeeded; the rest are optional.
type Results struct {
	Profitability Profitability `json:"profitability"`
	Safety        Safety        `json:"safety"`
	KeyMetrics    KeyMetrics    `json:"key_metrics"`

	CashFlow           *CashFlowSection `json:"cash_flow,omitempty"`
	Growth             *GrowthSection   `json:"growth,omitempty"`
	ForecastComparison *ForecastSection `json:"forecast_comparison,omitempty"`
	SegmentAnalysis    *SegmentSection  `json:"segment_analysis,omitempty"`
	CompanyComments    *CommentsSection `json:"company_comments,omitempty"`
}

// Profitability ratios are percentages; null means indeterminate.
type Profitability struct {
	ROE             *float64 `json:"roe"`
	ROA             *float64 `json:"roa"`
	OperatingMargin *float64 `json:"operating_margin"`
	Comments        []string `json:"comments"`
}

// Safety carries the ratios plus the underlying balance-sheet values, in
// millions of yen.
type Safety struct {
	EquityRatio        *float64 `json:"equity_ratio"`
	CurrentRatio       *float64 `json:"current_ratio"`
	FixedRatio         *float64 `json:"fixed_ratio"`
	CurrentAssets      *float64 `json:"current_assets"`
	FixedAssets        *float64 `json:"fixed_assets"`
	CurrentLiabilities *float64 `json:"current_liabilities"`
	FixedLiabilities   *float64 `json:"fixed_liabilities"`
	TotalNetAssets     *float64 `json:"total_net_assets"`
	Comments           []string `json:"comments"`
}

// Metric is one key-metric triple.
type Metric struct {
	Current    *float64 `json:"current"`
	Previous   *float64 `json:"previous"`
	GrowthRate *float64 `json:"growth_rate"`
}

type KeyMetrics struct {
	Revenue         Metric `json:"revenue"`
	OperatingIncome Metric `json:"operating_income"`
	NetIncome       Metric `json:"net_income"`
}

// CashFlowSection is present only when the filing reports cash flows.
type CashFlowSection struct {
	Data CashFlowData `json:"data"`
}

type CashFlowData struct {
	OperatingCashFlow *float64 `json:"operating_cash_flow"`
	InvestingCashFlow *float64 `json:"investing_cash_flow"`
	FinancingCashFlow *float64 `json:"financing_cash_flow"`
	FreeCashFlow      *float64 `json:"free_cash_flow,omitempty"`
	Type              string   `json:"type,omitempty"`
}

// GrowthSection is present only when a prior-period comparison exists.
type GrowthSection struct {
	HasComparison         bool     `json:"has_comparison"`
	RevenueGrowth         *float64 `json:"revenue_growth"`
	OperatingIncomeGrowth *float64 `json:"operating_income_growth"`
	NetIncomeGrowth       *float64 `json:"net_income_growth"`
	Comments              []string `json:"comments"`
	OverallEvaluation     string   `json:"overall_evaluation"`
}

// ForecastSection is present only when the filing carries a company forecast
// or a forecast revision.
type ForecastSection struct {
	HasForecast       bool            `json:"has_forecast"`
	Revenue           *ForecastMetric `json:"revenue,omitempty"`
	OperatingIncome   *ForecastMetric `json:"operating_income,omitempty"`
	NetIncome         *ForecastMetric `json:"net_income,omitempty"`
	Revisions         []Revision      `json:"revisions,omitempty"`
	OverallEvaluation string          `json:"overall_evaluation"`
}

type ForecastMetric struct {
	Actual          *float64    `json:"actual"`
	Forecast        *float64    `json:"forecast"`
	AchievementRate *float64    `json:"achievement_rate"`
	Evaluation      *Evaluation `json:"evaluation,omitempty"`
}

// Evaluation is the categorical judgment on one forecast line.
type Evaluation struct {
	Comment    string `json:"comment"`
	ColorClass string `json:"color_class"`
}

type Revision struct {
	RevisionDate            string   `json:"revision_date,omitempty"`
	PreviousRevenue         *float64 `json:"previous_revenue,omitempty"`
	RevisedRevenue          *float64 `json:"revised_revenue,omitempty"`
	PreviousOperatingIncome *float64 `json:"previous_operating_income,omitempty"`
	RevisedOperatingIncome  *float64 `json:"revised_operating_income,omitempty"`
	PreviousNetIncome       *float64 `json:"previous_net_income,omitempty"`
	RevisedNetIncome        *float64 `json:"revised_net_income,omitempty"`
	Reason                  string   `json:"reason,omitempty"`
}

// SegmentSection is present only when segment disclosure exists.
type SegmentSection struct {
	HasSegments bool          `json:"has_segments"`
	Segments    []SegmentItem `json:"segments"`
	Comments    []string      `json:"comments,omitempty"`
}

type SegmentItem struct {
	Name    string   `json:"name"`
	Revenue float64  `json:"revenue"`
	Margin  *float64 `json:"margin"`
}

// CommentsSection carries the summarized management commentary.
type CommentsSection struct {
	HasSummaries      bool   `json:"has_summaries"`
	ManagementSummary string `json:"management_summary"`
	OutlookSummary    string `json:"outlook_summary"`
}

// ErrorResponse is the uniform failure payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
