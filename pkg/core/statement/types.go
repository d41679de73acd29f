// Package statement defines the canonical financial statement model and the
// normalizer that builds it from raw extraction output. All monetary values
// are in millions of yen; a nil pointer means the line item was not reported,
// never that it was zero.
package statement

import "tanshin_insight/pkg/core/tanshin"

// BalanceSheet holds the canonical balance-sheet line items.
type BalanceSheet struct {
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	FixedAssets        *float64 `json:"fixed_assets,omitempty"`
	TotalAssets        *float64 `json:"total_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	FixedLiabilities   *float64 `json:"fixed_liabilities,omitempty"`
	TotalLiabilities   *float64 `json:"total_liabilities,omitempty"`
	TotalNetAssets     *float64 `json:"total_net_assets,omitempty"`
}

// IncomeStatement holds one period's canonical income line items. The same
// shape serves the current period, the prior period and the company forecast;
// for financial-institution filings Revenue is 経常収益 and OperatingIncome
// is 経常利益.
type IncomeStatement struct {
	Revenue         *float64 `json:"revenue,omitempty"`
	OperatingIncome *float64 `json:"operating_income,omitempty"`
	NetIncome       *float64 `json:"net_income,omitempty"`
}

// CashFlowStatement holds the three activity totals. Outflows are negative.
type CashFlowStatement struct {
	Operating *float64 `json:"operating,omitempty"`
	Investing *float64 `json:"investing,omitempty"`
	Financing *float64 `json:"financing,omitempty"`
}

// Segment is one business segment in canonical units.
type Segment struct {
	Name            string   `json:"name"`
	Revenue         float64  `json:"revenue"`
	OperatingIncome *float64 `json:"operating_income,omitempty"`
}

// ForecastRevision is one normalized 修正前/修正後 pair.
type ForecastRevision struct {
	RevisionDate            string   `json:"revision_date,omitempty"`
	PreviousRevenue         *float64 `json:"previous_revenue,omitempty"`
	RevisedRevenue          *float64 `json:"revised_revenue,omitempty"`
	PreviousOperatingIncome *float64 `json:"previous_operating_income,omitempty"`
	RevisedOperatingIncome  *float64 `json:"revised_operating_income,omitempty"`
	PreviousNetIncome       *float64 `json:"previous_net_income,omitempty"`
	RevisedNetIncome        *float64 `json:"revised_net_income,omitempty"`
	Reason                  string   `json:"reason,omitempty"`
}

// Meta carries the document-level facts the assembler echoes back.
type Meta struct {
	CompanyName  string         `json:"company_name,omitempty"`
	FiscalPeriod string         `json:"fiscal_period,omitempty"`
	Format       tanshin.Format `json:"format"`
	SourceUnit   tanshin.Unit   `json:"source_unit"`
}

// CanonicalStatement is the normalized view of one filing. Downstream stages
// (ratio engine, evaluator, assembler) consume only this.
type CanonicalStatement struct {
	Meta           Meta               `json:"meta"`
	BalanceSheet   BalanceSheet       `json:"balance_sheet"`
	Income         IncomeStatement    `json:"income"`
	PreviousIncome IncomeStatement    `json:"previous_income"`
	Forecast       IncomeStatement    `json:"forecast"`
	CashFlow       CashFlowStatement  `json:"cash_flow"`
	Segments       []Segment          `json:"segments,omitempty"`
	Revisions      []ForecastRevision `json:"revisions,omitempty"`
	Comments       *tanshin.CommentSections

	// Warnings records non-fatal normalization findings, e.g. a balance
	// sheet that does not tie out within tolerance.
	Warnings []string `json:"warnings,omitempty"`
}
