package eval

import "tanshin_insight/pkg/core/statement"

// Cash-flow pattern types derived from the signs of the three activity
// totals.
const (
	CashFlowHealthy = "healthy"
	CashFlowGrowing = "growing"
	CashFlowWarning = "warning"
	CashFlowOther   = "other"
)

// CashFlowType classifies the sign pattern of the cash-flow statement.
// Operating inflow funding investment and debt repayment is healthy;
// operating inflow plus external financing of investment is a growth
// pattern; an operating outflow is a warning regardless of the rest.
// Returns the empty string when any total is unreported.
func CashFlowType(cf statement.CashFlowStatement) string {
	if cf.Operating == nil || cf.Investing == nil || cf.Financing == nil {
		return ""
	}
	op, inv, fin := *cf.Operating, *cf.Investing, *cf.Financing
	switch {
	case op < 0:
		return CashFlowWarning
	case op > 0 && inv < 0 && fin < 0:
		return CashFlowHealthy
	case op > 0 && inv < 0 && fin >= 0:
		return CashFlowGrowing
	default:
		return CashFlowOther
	}
}
