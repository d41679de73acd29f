// Package tanshin extracts financial line items from the HTML rendition of a
// Japanese earnings report (決算短信). The extractor is layout-tolerant: it
// sanitizes the document, rebuilds every table as an aligned cell grid, and
// then locates line items by format-specific keyword lists, falling back to a
// line-based text scan when no table yields a value.
package tanshin

import (
	"errors"
	"fmt"
)

// Format identifies the filing convention a document follows.
type Format string

const (
	// FormatGeneral is the ordinary corporate layout (売上高 / 営業利益).
	FormatGeneral Format = "general"
	// FormatFinancial is the bank/insurer layout (経常収益 / 経常利益).
	FormatFinancial Format = "financial"
)

// Unit is the monetary scale the source document reports in.
type Unit string

const (
	UnitThousandYen Unit = "thousand" // 千円
	UnitMillionYen  Unit = "million"  // 百万円
)

// Canonical line-item keys produced by the extractor. The normalizer maps
// these onto the canonical statement; the ratio engine never sees them.
const (
	KeyCurrentAssets      = "current_assets"
	KeyFixedAssets        = "fixed_assets"
	KeyTotalAssets        = "total_assets"
	KeyCurrentLiabilities = "current_liabilities"
	KeyFixedLiabilities   = "fixed_liabilities"
	KeyTotalLiabilities   = "total_liabilities"
	KeyTotalNetAssets     = "total_net_assets"

	KeyRevenue         = "revenue"
	KeyOperatingIncome = "operating_income"
	KeyNetIncome       = "net_income"

	KeyOperatingCashFlow = "operating_cash_flow"
	KeyInvestingCashFlow = "investing_cash_flow"
	KeyFinancingCashFlow = "financing_cash_flow"
)

// Provenance records where in the document a candidate value was found.
type Provenance struct {
	TableCaption string `json:"table_caption,omitempty"`
	RowLabel     string `json:"row_label,omitempty"`
	Column       int    `json:"column,omitempty"`
	FromText     bool   `json:"from_text,omitempty"`
}

// Candidate is a numeric value located for a canonical key, with provenance.
type Candidate struct {
	Value  float64    `json:"value"`
	Source Provenance `json:"source"`
}

// SegmentCandidate is one business-segment row located in a segment table.
type SegmentCandidate struct {
	Name            string   `json:"name"`
	Revenue         float64  `json:"revenue"`
	OperatingIncome *float64 `json:"operating_income,omitempty"`
}

// RevisionCandidate is one forecast-revision pair (修正前 → 修正後).
type RevisionCandidate struct {
	RevisionDate            string   `json:"revision_date,omitempty"`
	PreviousRevenue         *float64 `json:"previous_revenue,omitempty"`
	RevisedRevenue          *float64 `json:"revised_revenue,omitempty"`
	PreviousOperatingIncome *float64 `json:"previous_operating_income,omitempty"`
	RevisedOperatingIncome  *float64 `json:"revised_operating_income,omitempty"`
	PreviousNetIncome       *float64 `json:"previous_net_income,omitempty"`
	RevisedNetIncome        *float64 `json:"revised_net_income,omitempty"`
	Reason                  string   `json:"reason,omitempty"`
}

// CommentSections holds the free-text management commentary located in the
// document body. Both fields may be empty.
type CommentSections struct {
	ManagementDiscussion string `json:"management_discussion,omitempty"`
	FutureOutlook        string `json:"future_outlook,omitempty"`
}

// Extraction is the loosely-structured output of one document pass. Values
// are in the source document's unit; scale conversion happens downstream.
type Extraction struct {
	CompanyName  string
	FiscalPeriod string
	Format       Format
	Unit         Unit

	BalanceSheet   map[string]Candidate
	Income         map[string]Candidate
	PreviousIncome map[string]Candidate
	Forecast       map[string]Candidate
	CashFlow       map[string]Candidate

	Segments  []SegmentCandidate
	Revisions []RevisionCandidate
	Comments  *CommentSections

	// Unresolved lists canonical keys no strategy could locate. Consumed by
	// error reporting; never fatal on its own.
	Unresolved []string
}

// ErrUnsupportedFormat is returned when the document contains no recognizable
// statement structure at all. Partial extraction is never this error.
var ErrUnsupportedFormat = errors.New("no recognizable financial statement structure found")

// InvalidDocumentError rejects a document before extraction starts (wrong
// type or too large). The transport layer maps it to 400/413.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid document: %s", e.Reason)
}
