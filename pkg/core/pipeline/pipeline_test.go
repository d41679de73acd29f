package pipeline

import (
	"context"
	"errors"
	"testing"

	"tanshin_insight/pkg/core/eval"
	"tanshin_insight/pkg/core/store"
	"tanshin_insight/pkg/core/tanshin"
)

const fixture = `<!DOCTYPE html>
<html><body>
<p>2026年3月期 決算短信〔日本基準〕（連結）</p>
<p>テスト工業株式会社</p>
<h2>連結経営成績</h2>
<table>
<tr><th></th><th>売上高</th><th>営業利益</th><th>当期純利益</th></tr>
<tr><td>2026年3月期</td><td>12,500</td><td>1,250</td><td>800</td></tr>
<tr><td>2025年3月期</td><td>10,000</td><td>1,000</td><td>700</td></tr>
</table>
<h2>連結貸借対照表（単位：千円）</h2>
<table>
<tr><td>流動資産合計</td><td>18,000,000</td></tr>
<tr><td>固定資産合計</td><td>12,000,000</td></tr>
<tr><td>流動負債合計</td><td>9,000,000</td></tr>
<tr><td>固定負債合計</td><td>11,000,000</td></tr>
<tr><td>純資産合計</td><td>10,000,000</td></tr>
</table>
</body></html>`

func newTestPipeline(t *testing.T) (*Pipeline, *store.DocumentStore) {
	t.Helper()
	docs, err := store.NewDocumentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDocumentStore: %v", err)
	}
	results := store.NewResultCache(nil, t.TempDir())
	return New(eval.DefaultThresholds(), docs, results), docs
}

func TestAnalyzeEndToEnd(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	p, docs := newTestPipeline(t)

	id, err := docs.Save([]byte(fixture))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	resp, err := p.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.CompanyName != "テスト工業株式会社" {
		t.Errorf("company = %q", resp.CompanyName)
	}
	if resp.Results.KeyMetrics.Revenue.GrowthRate == nil || *resp.Results.KeyMetrics.Revenue.GrowthRate != 25.0 {
		t.Errorf("revenue growth = %v, want 25.0", resp.Results.KeyMetrics.Revenue.GrowthRate)
	}
	if resp.Results.Safety.EquityRatio == nil || *resp.Results.Safety.EquityRatio != 33.33 {
		t.Errorf("equity ratio = %v, want 33.33", resp.Results.Safety.EquityRatio)
	}

	// Second call must be served from the result cache.
	again, err := p.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("Analyze (cached): %v", err)
	}
	if again.CompanyName != resp.CompanyName {
		t.Errorf("cached company = %q", again.CompanyName)
	}
}

func TestAnalyzeUnknownDocument(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.Analyze(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	if !errors.Is(err, store.ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestAnalyzeContentUnsupported(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.AnalyzeContent(context.Background(), []byte("<html><body>お知らせ</body></html>"))
	if !errors.Is(err, tanshin.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
