package statement

import (
	"fmt"
	"log"
	"math"

	"tanshin_insight/pkg/core/tanshin"
)

// Balance-equation slack allowed before a warning is recorded, in millions
// of yen. Rounding in the source document accounts for sub-unit drift.
const balanceTolerance = 1.0

// Normalize converts raw extraction output into the canonical statement:
// values are scaled to millions of yen, absent items stay nil, and derivable
// items are filled in from their components.
func Normalize(ex *tanshin.Extraction) *CanonicalStatement {
	scale := 1.0
	if ex.Unit == tanshin.UnitThousandYen {
		scale = 1.0 / 1000.0
	}

	cs := &CanonicalStatement{
		Meta: Meta{
			CompanyName:  ex.CompanyName,
			FiscalPeriod: ex.FiscalPeriod,
			Format:       ex.Format,
			SourceUnit:   ex.Unit,
		},
		Comments: ex.Comments,
	}

	bs := &cs.BalanceSheet
	bs.CurrentAssets = scaled(ex.BalanceSheet, tanshin.KeyCurrentAssets, scale)
	bs.FixedAssets = scaled(ex.BalanceSheet, tanshin.KeyFixedAssets, scale)
	bs.TotalAssets = scaled(ex.BalanceSheet, tanshin.KeyTotalAssets, scale)
	bs.CurrentLiabilities = scaled(ex.BalanceSheet, tanshin.KeyCurrentLiabilities, scale)
	bs.FixedLiabilities = scaled(ex.BalanceSheet, tanshin.KeyFixedLiabilities, scale)
	bs.TotalLiabilities = scaled(ex.BalanceSheet, tanshin.KeyTotalLiabilities, scale)
	bs.TotalNetAssets = scaled(ex.BalanceSheet, tanshin.KeyTotalNetAssets, scale)

	cs.Income = incomeFrom(ex.Income, scale)
	cs.PreviousIncome = incomeFrom(ex.PreviousIncome, scale)
	cs.Forecast = incomeFrom(ex.Forecast, scale)

	cs.CashFlow = CashFlowStatement{
		Operating: scaled(ex.CashFlow, tanshin.KeyOperatingCashFlow, scale),
		Investing: scaled(ex.CashFlow, tanshin.KeyInvestingCashFlow, scale),
		Financing: scaled(ex.CashFlow, tanshin.KeyFinancingCashFlow, scale),
	}

	for _, seg := range ex.Segments {
		s := Segment{Name: seg.Name, Revenue: seg.Revenue * scale}
		if seg.OperatingIncome != nil {
			oi := *seg.OperatingIncome * scale
			s.OperatingIncome = &oi
		}
		cs.Segments = append(cs.Segments, s)
	}

	for _, rev := range ex.Revisions {
		cs.Revisions = append(cs.Revisions, ForecastRevision{
			RevisionDate:            rev.RevisionDate,
			PreviousRevenue:         scaledPtr(rev.PreviousRevenue, scale),
			RevisedRevenue:          scaledPtr(rev.RevisedRevenue, scale),
			PreviousOperatingIncome: scaledPtr(rev.PreviousOperatingIncome, scale),
			RevisedOperatingIncome:  scaledPtr(rev.RevisedOperatingIncome, scale),
			PreviousNetIncome:       scaledPtr(rev.PreviousNetIncome, scale),
			RevisedNetIncome:        scaledPtr(rev.RevisedNetIncome, scale),
			Reason:                  rev.Reason,
		})
	}

	deriveBalanceSheet(cs)
	checkConsistency(cs)

	if len(cs.Warnings) > 0 {
		log.Printf("[Normalizer] %d warning(s): %v", len(cs.Warnings), cs.Warnings)
	}
	return cs
}

// deriveBalanceSheet fills items computable from reported components.
// Derivation only ever adds; reported values are never overwritten.
func deriveBalanceSheet(cs *CanonicalStatement) {
	bs := &cs.BalanceSheet

	if bs.TotalAssets == nil && bs.CurrentAssets != nil && bs.FixedAssets != nil {
		bs.TotalAssets = sum(*bs.CurrentAssets, *bs.FixedAssets)
	}
	if bs.TotalLiabilities == nil && bs.CurrentLiabilities != nil && bs.FixedLiabilities != nil {
		bs.TotalLiabilities = sum(*bs.CurrentLiabilities, *bs.FixedLiabilities)
	}
	if bs.FixedLiabilities == nil && bs.TotalLiabilities != nil && bs.CurrentLiabilities != nil {
		bs.FixedLiabilities = sum(*bs.TotalLiabilities, -*bs.CurrentLiabilities)
	}
	if bs.TotalLiabilities == nil && bs.TotalAssets != nil && bs.TotalNetAssets != nil {
		bs.TotalLiabilities = sum(*bs.TotalAssets, -*bs.TotalNetAssets)
	}
}

// checkConsistency verifies assets = liabilities + net assets when all three
// are present. A mismatch beyond tolerance is a warning, not an error; the
// reported values are kept as-is.
func checkConsistency(cs *CanonicalStatement) {
	bs := &cs.BalanceSheet
	if bs.TotalAssets == nil || bs.TotalLiabilities == nil || bs.TotalNetAssets == nil {
		return
	}
	diff := *bs.TotalAssets - (*bs.TotalLiabilities + *bs.TotalNetAssets)
	if math.Abs(diff) > balanceTolerance {
		cs.Warnings = append(cs.Warnings, fmt.Sprintf(
			"balance equation off by %.1f million yen (assets %.1f, liabilities %.1f, net assets %.1f)",
			diff, *bs.TotalAssets, *bs.TotalLiabilities, *bs.TotalNetAssets))
	}
}

func incomeFrom(m map[string]tanshin.Candidate, scale float64) IncomeStatement {
	return IncomeStatement{
		Revenue:         scaled(m, tanshin.KeyRevenue, scale),
		OperatingIncome: scaled(m, tanshin.KeyOperatingIncome, scale),
		NetIncome:       scaled(m, tanshin.KeyNetIncome, scale),
	}
}

func scaled(m map[string]tanshin.Candidate, key string, scale float64) *float64 {
	cand, ok := m[key]
	if !ok {
		return nil
	}
	v := cand.Value * scale
	return &v
}

func scaledPtr(p *float64, scale float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p * scale
	return &v
}

func sum(a, b float64) *float64 {
	v := a + b
	return &v
}
