package tanshin

import "strings"

// extractionStrategy carries the format-specific wording used to locate line
// items. One strategy per recognized filing convention; the detector picks
// one before full extraction runs. Adding a format only means adding a
// strategy here, nothing downstream changes.
type extractionStrategy struct {
	format   Format
	synonyms map[string][]string
}

// Synonyms returns the label candidates for a canonical key, most specific
// first. Matching is substring-based, so order matters.
func (s *extractionStrategy) Synonyms(key string) []string {
	return s.synonyms[key]
}

var sharedSynonyms = map[string][]string{
	KeyCurrentAssets:      {"流動資産合計", "流動資産"},
	KeyFixedAssets:        {"固定資産合計", "固定資産"},
	KeyTotalAssets:        {"資産合計", "総資産"},
	KeyCurrentLiabilities: {"流動負債合計", "流動負債"},
	KeyFixedLiabilities:   {"固定負債合計", "固定負債"},
	KeyTotalLiabilities:   {"負債合計", "総負債"},
	KeyTotalNetAssets:     {"純資産合計", "純資産の部合計", "純資産"},
	KeyNetIncome: {
		"親会社株主に帰属する当期純利益",
		"親会社株主に帰属する四半期純利益",
		"当期純利益",
		"四半期純利益",
	},
	KeyOperatingCashFlow: {"営業活動によるキャッシュ・フロー", "営業活動によるキャッシュフロー"},
	KeyInvestingCashFlow: {"投資活動によるキャッシュ・フロー", "投資活動によるキャッシュフロー"},
	KeyFinancingCashFlow: {"財務活動によるキャッシュ・フロー", "財務活動によるキャッシュフロー"},
}

var generalStrategy = newStrategy(FormatGeneral, map[string][]string{
	KeyRevenue:         {"売上収益", "営業収益", "売上高"},
	KeyOperatingIncome: {"営業利益"},
})

// Banks and insurers report 経常収益/経常利益 instead of 売上高/営業利益.
var financialStrategy = newStrategy(FormatFinancial, map[string][]string{
	KeyRevenue:         {"経常収益"},
	KeyOperatingIncome: {"経常利益"},
})

func newStrategy(format Format, own map[string][]string) *extractionStrategy {
	merged := make(map[string][]string, len(sharedSynonyms)+len(own))
	for k, v := range sharedSynonyms {
		merged[k] = v
	}
	for k, v := range own {
		merged[k] = v
	}
	return &extractionStrategy{format: format, synonyms: merged}
}

// statementMarkers are the structural anchors at least one of which any
// recognizable earnings report contains.
var statementMarkers = []string{
	"決算短信",
	"連結経営成績",
	"経営成績",
	"貸借対照表",
	"財政状態",
	"総資産",
	"純資産",
}

// DetectFormat probes the document text and selects the extraction strategy.
// Returns ErrUnsupportedFormat when no statement structure is recognizable.
func DetectFormat(text string) (*extractionStrategy, error) {
	recognized := false
	for _, marker := range statementMarkers {
		if strings.Contains(text, marker) {
			recognized = true
			break
		}
	}
	if !recognized {
		return nil, ErrUnsupportedFormat
	}

	// 経常収益 only appears as the top line of financial-institution filings;
	// ordinary companies use it nowhere in the summary table.
	if strings.Contains(text, "経常収益") && !strings.Contains(text, "売上高") {
		return financialStrategy, nil
	}
	return generalStrategy, nil
}
