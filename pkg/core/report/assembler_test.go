package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tanshin_insight/pkg/core/eval"
	"tanshin_insight/pkg/core/ratio"
	"tanshin_insight/pkg/core/statement"
)

func f(v float64) *float64 { return &v }

func fullStatement() *statement.CanonicalStatement {
	return &statement.CanonicalStatement{
		Meta: statement.Meta{CompanyName: "テスト工業株式会社", FiscalPeriod: "2026年3月期"},
		BalanceSheet: statement.BalanceSheet{
			CurrentAssets:      f(1000),
			FixedAssets:        f(500),
			TotalAssets:        f(1500),
			CurrentLiabilities: f(800),
			FixedLiabilities:   f(200),
			TotalLiabilities:   f(1000),
			TotalNetAssets:     f(500),
		},
		Income: statement.IncomeStatement{
			Revenue:         f(950),
			OperatingIncome: f(95),
			NetIncome:       f(60),
		},
		PreviousIncome: statement.IncomeStatement{Revenue: f(800)},
		Forecast:       statement.IncomeStatement{Revenue: f(1000)},
		CashFlow: statement.CashFlowStatement{
			Operating: f(120),
			Investing: f(-80),
			Financing: f(-20),
		},
		Segments: []statement.Segment{
			{Name: "電子部品事業", Revenue: 700, OperatingIncome: f(80)},
			{Name: "ソフトウェア事業", Revenue: 250},
		},
	}
}

func assemble(cs *statement.CanonicalStatement) *Response {
	set := ratio.Compute(cs)
	return Assemble(cs, set, eval.New(eval.DefaultThresholds()), nil)
}

func TestAssembleAlwaysPresentSections(t *testing.T) {
	resp := assemble(fullStatement())

	if resp.CompanyName != "テスト工業株式会社" || resp.FiscalYear != "2026年3月期" {
		t.Errorf("header = %q / %q", resp.CompanyName, resp.FiscalYear)
	}
	// equity_ratio 500/1500 = 33.33 after rounding.
	if resp.Results.Safety.EquityRatio == nil || *resp.Results.Safety.EquityRatio != 33.33 {
		t.Errorf("equity_ratio = %v, want 33.33", resp.Results.Safety.EquityRatio)
	}
	if resp.Results.KeyMetrics.Revenue.GrowthRate == nil || *resp.Results.KeyMetrics.Revenue.GrowthRate != 18.75 {
		t.Errorf("revenue growth = %v, want 18.75", resp.Results.KeyMetrics.Revenue.GrowthRate)
	}
	if len(resp.Results.Safety.Comments) == 0 {
		t.Error("safety comments empty")
	}
}

func TestAssembleForecastEvaluation(t *testing.T) {
	resp := assemble(fullStatement())

	fc := resp.Results.ForecastComparison
	if fc == nil || !fc.HasForecast {
		t.Fatal("forecast section missing")
	}
	if fc.Revenue == nil || fc.Revenue.AchievementRate == nil || *fc.Revenue.AchievementRate != 95.0 {
		t.Fatalf("achievement = %+v, want 95.0", fc.Revenue)
	}
	if fc.Revenue.Evaluation == nil || fc.Revenue.Evaluation.ColorClass != eval.ColorGood {
		t.Errorf("color = %+v, want good", fc.Revenue.Evaluation)
	}
	// No forecast for operating income in the fixture: no achievement, no color.
	if fc.OperatingIncome.Forecast != nil || fc.OperatingIncome.Evaluation != nil {
		t.Errorf("operating income forecast metric = %+v, want actual only", fc.OperatingIncome)
	}
}

func TestAssembleOptionalSectionsAbsent(t *testing.T) {
	cs := fullStatement()
	cs.CashFlow = statement.CashFlowStatement{}
	cs.Forecast = statement.IncomeStatement{}
	cs.PreviousIncome = statement.IncomeStatement{}
	cs.Segments = nil

	resp := assemble(cs)
	r := resp.Results
	if r.CashFlow != nil || r.Growth != nil || r.ForecastComparison != nil ||
		r.SegmentAnalysis != nil || r.CompanyComments != nil {
		t.Error("optional sections must be absent without their inputs")
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"cash_flow", "growth", "forecast_comparison", "segment_analysis", "company_comments"} {
		if bytes.Contains(data, []byte(`"`+key+`"`)) {
			t.Errorf("JSON contains %q, want omitted", key)
		}
	}
}

func TestAssembleCashFlowSection(t *testing.T) {
	resp := assemble(fullStatement())
	cf := resp.Results.CashFlow
	if cf == nil {
		t.Fatal("cash flow section missing")
	}
	if cf.Data.Type != eval.CashFlowHealthy {
		t.Errorf("cash flow type = %q, want healthy", cf.Data.Type)
	}
	if cf.Data.FreeCashFlow == nil || *cf.Data.FreeCashFlow != 40 {
		t.Errorf("free cash flow = %v, want 40", cf.Data.FreeCashFlow)
	}
}

func TestAssembleSegmentMargins(t *testing.T) {
	resp := assemble(fullStatement())
	sa := resp.Results.SegmentAnalysis
	if sa == nil || !sa.HasSegments || len(sa.Segments) != 2 {
		t.Fatalf("segment section = %+v", sa)
	}
	if sa.Segments[0].Margin == nil || *sa.Segments[0].Margin != 11.43 {
		t.Errorf("margin = %v, want 11.43", sa.Segments[0].Margin)
	}
	if sa.Segments[1].Margin != nil {
		t.Error("undisclosed margin must stay null")
	}
}

func TestAssembleCompanyComments(t *testing.T) {
	cs := fullStatement()
	set := ratio.Compute(cs)
	ev := eval.New(eval.DefaultThresholds())

	resp := Assemble(cs, set, ev, &Summaries{Management: "増収増益。", Outlook: "堅調な見通し。"})
	cc := resp.Results.CompanyComments
	if cc == nil || !cc.HasSummaries {
		t.Fatal("company comments missing")
	}
	if cc.ManagementSummary != "増収増益。" {
		t.Errorf("management summary = %q", cc.ManagementSummary)
	}

	if got := Assemble(cs, set, ev, &Summaries{}); got.Results.CompanyComments != nil {
		t.Error("empty summaries must not emit a comments section")
	}
}

func TestAssembleQuarterContext(t *testing.T) {
	cs := fullStatement()
	cs.Meta.FiscalPeriod = "2026年3月期第2四半期"
	resp := assemble(cs)
	overall := resp.Results.ForecastComparison.OverallEvaluation
	if !strings.Contains(overall, "第2四半期時点") {
		t.Errorf("overall = %q, want quarter context", overall)
	}
}

func TestAssembleDeterminism(t *testing.T) {
	cs := fullStatement()
	a, err := json.Marshal(assemble(cs))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(assemble(cs))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical input must produce byte-identical JSON")
	}
}

func TestNullRatiosSerializeAsNull(t *testing.T) {
	cs := fullStatement()
	cs.BalanceSheet.CurrentLiabilities = f(0)
	resp := assemble(cs)
	if resp.Results.Safety.CurrentRatio != nil {
		t.Fatal("current ratio with zero liabilities must be nil")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(data, []byte(`"current_ratio":null`)) {
		t.Error("current_ratio must serialize as explicit null")
	}
}
