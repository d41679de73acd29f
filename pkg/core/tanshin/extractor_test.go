package tanshin

import (
	"errors"
	"math"
	"testing"
)

const generalFixture = `<!DOCTYPE html>
<html><body>
<p>2026年3月期 決算短信〔日本基準〕（連結）</p>
<p>テスト工業株式会社</p>
<h2>1. 連結経営成績</h2>
<table>
<tr><th></th><th>売上高</th><th>営業利益</th><th>親会社株主に帰属する当期純利益</th></tr>
<tr><td>2026年3月期</td><td>12,500</td><td>1,250</td><td>800</td></tr>
<tr><td>2025年3月期</td><td>10,000</td><td>1,000</td><td>700</td></tr>
</table>
<h2>2. 連結財政状態</h2>
<table>
<tr><th></th><th>総資産</th><th>純資産</th></tr>
<tr><td>2026年3月期</td><td>30,000</td><td>10,000</td></tr>
</table>
<h2>3. 業績予想</h2>
<table>
<tr><th></th><th>売上高</th><th>営業利益</th><th>当期純利益</th></tr>
<tr><td>通期</td><td>13,000</td><td>1,300</td><td>850</td></tr>
</table>
<h2>連結貸借対照表（単位：千円）</h2>
<table>
<tr><td>流動資産合計</td><td>18,000,000</td></tr>
<tr><td>固定資産合計</td><td>12,000,000</td></tr>
<tr><td>流動負債合計</td><td>9,000,000</td></tr>
<tr><td>固定負債合計</td><td>11,000,000</td></tr>
<tr><td>負債合計</td><td>20,000,000</td></tr>
<tr><td>純資産合計</td><td>10,000,000</td></tr>
</table>
<h2>連結キャッシュ・フロー計算書</h2>
<table>
<tr><td>営業活動によるキャッシュ・フロー</td><td>2,000,000</td></tr>
<tr><td>投資活動によるキャッシュ・フロー</td><td>△1,500,000</td></tr>
<tr><td>財務活動によるキャッシュ・フロー</td><td>△300,000</td></tr>
</table>
<h2>セグメント情報</h2>
<table>
<tr><th>セグメントの名称</th><th>売上高</th><th>営業利益</th></tr>
<tr><td>電子部品事業</td><td>8,000,000</td><td>900,000</td></tr>
<tr><td>ソフトウェア事業</td><td>4,500,000</td><td>350,000</td></tr>
<tr><td>合計</td><td>12,500,000</td><td>1,250,000</td></tr>
</table>
<h3>（1）経営成績に関する説明</h3>
<p>当連結会計年度におけるわが国経済は、緩やかな回復基調で推移しました。当社グループの売上高は前期比25.0%増となりました。</p>
<h3>（2）今後の見通し</h3>
<p>次期につきましては、引き続き堅調な需要を見込んでおります。</p>
</body></html>`

const financialFixture = `<!DOCTYPE html>
<html><body>
<p>2026年3月期 決算短信〔日本基準〕（連結）</p>
<p>株式会社テスト銀行</p>
<h2>連結経営成績</h2>
<table>
<tr><th></th><th>経常収益</th><th>経常利益</th><th>親会社株主に帰属する当期純利益</th></tr>
<tr><td>2026年3月期</td><td>98,765</td><td>8,700</td><td>6,100</td></tr>
<tr><td>2025年3月期</td><td>95,000</td><td>8,200</td><td>5,800</td></tr>
</table>
<h2>連結財政状態</h2>
<table>
<tr><th></th><th>総資産</th><th>純資産</th></tr>
<tr><td>2026年3月期</td><td>5,400,000</td><td>280,000</td></tr>
</table>
</body></html>`

func TestExtractGeneral(t *testing.T) {
	ex, err := NewExtractor().Extract(generalFixture)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if ex.Format != FormatGeneral {
		t.Errorf("format = %v, want general", ex.Format)
	}
	if ex.Unit != UnitThousandYen {
		t.Errorf("unit = %v, want thousand", ex.Unit)
	}
	if ex.CompanyName != "テスト工業株式会社" {
		t.Errorf("company = %q", ex.CompanyName)
	}
	if ex.FiscalPeriod != "2026年3月期" {
		t.Errorf("fiscal period = %q", ex.FiscalPeriod)
	}

	wantIncome := map[string]float64{
		KeyRevenue:         12500,
		KeyOperatingIncome: 1250,
		KeyNetIncome:       800,
	}
	for key, want := range wantIncome {
		got, ok := ex.Income[key]
		if !ok {
			t.Errorf("income %s missing", key)
			continue
		}
		if math.Abs(got.Value-want) > 1e-9 {
			t.Errorf("income %s = %v, want %v", key, got.Value, want)
		}
	}

	if got := ex.PreviousIncome[KeyRevenue].Value; got != 10000 {
		t.Errorf("previous revenue = %v, want 10000", got)
	}
	if got := ex.Forecast[KeyRevenue].Value; got != 13000 {
		t.Errorf("forecast revenue = %v, want 13000", got)
	}

	wantBS := map[string]float64{
		KeyTotalAssets:        30000,
		KeyCurrentAssets:      18000000,
		KeyFixedAssets:        12000000,
		KeyCurrentLiabilities: 9000000,
		KeyFixedLiabilities:   11000000,
		KeyTotalLiabilities:   20000000,
	}
	for key, want := range wantBS {
		got, ok := ex.BalanceSheet[key]
		if !ok {
			t.Errorf("balance sheet %s missing", key)
			continue
		}
		if math.Abs(got.Value-want) > 1e-9 {
			t.Errorf("balance sheet %s = %v, want %v", key, got.Value, want)
		}
	}

	if got := ex.CashFlow[KeyOperatingCashFlow].Value; got != 2000000 {
		t.Errorf("operating CF = %v, want 2000000", got)
	}
	if got := ex.CashFlow[KeyInvestingCashFlow].Value; got != -1500000 {
		t.Errorf("investing CF = %v, want -1500000", got)
	}

	if len(ex.Segments) != 2 {
		t.Fatalf("segments = %d, want 2 (合計 row must be skipped)", len(ex.Segments))
	}
	if ex.Segments[0].Name != "電子部品事業" || ex.Segments[0].Revenue != 8000000 {
		t.Errorf("segment[0] = %+v", ex.Segments[0])
	}
	if ex.Segments[1].OperatingIncome == nil || *ex.Segments[1].OperatingIncome != 350000 {
		t.Errorf("segment[1] operating income = %+v", ex.Segments[1].OperatingIncome)
	}

	if ex.Comments == nil {
		t.Fatal("comments missing")
	}
	if ex.Comments.ManagementDiscussion == "" {
		t.Error("management discussion empty")
	}
	if ex.Comments.FutureOutlook == "" {
		t.Error("future outlook empty")
	}

	if len(ex.Unresolved) != 0 {
		t.Errorf("unresolved = %v, want none", ex.Unresolved)
	}
}

func TestExtractFinancial(t *testing.T) {
	ex, err := NewExtractor().Extract(financialFixture)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if ex.Format != FormatFinancial {
		t.Errorf("format = %v, want financial", ex.Format)
	}
	if ex.CompanyName != "株式会社テスト銀行" {
		t.Errorf("company = %q", ex.CompanyName)
	}
	if got := ex.Income[KeyRevenue].Value; got != 98765 {
		t.Errorf("revenue (経常収益) = %v, want 98765", got)
	}
	if got := ex.Income[KeyOperatingIncome].Value; got != 8700 {
		t.Errorf("operating income (経常利益) = %v, want 8700", got)
	}
	if got := ex.BalanceSheet[KeyTotalAssets].Value; got != 5400000 {
		t.Errorf("total assets = %v, want 5400000", got)
	}

	// The financial fixture carries no attachment statements.
	for _, key := range []string{KeyCurrentAssets, KeyCurrentLiabilities} {
		if _, ok := ex.BalanceSheet[key]; ok {
			t.Errorf("unexpected %s in sparse document", key)
		}
	}
}

func TestExtractUnsupportedDocument(t *testing.T) {
	_, err := NewExtractor().Extract("<html><body><p>採用情報のお知らせ</p></body></html>")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractRevisionNotice(t *testing.T) {
	const fixture = `<html><body>
<p>2026年3月期 決算短信</p>
<p>連結経営成績</p>
<p>業績予想の修正に関するお知らせ 2025年11月10日</p>
<table>
<tr><th></th><th>売上高</th><th>営業利益</th><th>当期純利益</th></tr>
<tr><td>前回発表予想（A）</td><td>12,000</td><td>1,100</td><td>750</td></tr>
<tr><td>今回修正予想（B）</td><td>13,000</td><td>1,300</td><td>850</td></tr>
</table>
<p>修正の理由</p>
<p>主力製品の販売が想定を上回って推移したため、通期業績予想を上方修正いたします。</p>
</body></html>`

	ex, err := NewExtractor().Extract(fixture)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(ex.Revisions) != 1 {
		t.Fatalf("revisions = %d, want 1", len(ex.Revisions))
	}
	rev := ex.Revisions[0]
	if rev.PreviousRevenue == nil || *rev.PreviousRevenue != 12000 {
		t.Errorf("previous revenue = %+v, want 12000", rev.PreviousRevenue)
	}
	if rev.RevisedRevenue == nil || *rev.RevisedRevenue != 13000 {
		t.Errorf("revised revenue = %+v, want 13000", rev.RevisedRevenue)
	}
	if rev.RevisedOperatingIncome == nil || *rev.RevisedOperatingIncome != 1300 {
		t.Errorf("revised operating income = %+v, want 1300", rev.RevisedOperatingIncome)
	}
	if rev.RevisionDate != "2025年11月10日" {
		t.Errorf("revision date = %q", rev.RevisionDate)
	}
	if rev.Reason == "" {
		t.Error("revision reason empty")
	}
}

func TestTableGridAlignment(t *testing.T) {
	const fixture = `<html><body><table>
<tr><th rowspan="2">項目</th><th colspan="2">当期</th></tr>
<tr><th>金額</th><th>比率</th></tr>
<tr><td>売上高</td><td>1,000</td><td>10.0</td></tr>
</table></body></html>`

	doc, err := NewSanitizer().Sanitize(fixture)
	if err != nil {
		t.Fatalf("Sanitize error: %v", err)
	}
	tables := CollectTables(doc)
	if len(tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(tables))
	}
	grid := tables[0].Grid
	if len(grid) != 3 || len(grid[0]) != 3 {
		t.Fatalf("grid shape = %dx%d, want 3x3", len(grid), len(grid[0]))
	}
	if header := tables[0].Header(); len(header) != 3 || header[0] != "項目" {
		t.Errorf("header = %v, want first grid row", header)
	}
	if grid[1][1] != "金額" {
		t.Errorf("grid[1][1] = %q, want 金額 (rowspan must shift the second header row)", grid[1][1])
	}
	if grid[2][1] != "1,000" {
		t.Errorf("grid[2][1] = %q, want 1,000", grid[2][1])
	}
}
