package eval

import "fmt"

// Wording lives in one table so text changes never touch rule logic.
// Each template receives the finding's value already rounded.
var wordingTable = map[string]map[string]string{
	"roe": {
		"high":    "ROEは%.2f%%と高水準で、資本効率は良好です",
		"average": "ROEは%.2f%%と平均的な水準です",
		"low":     "ROEは%.2f%%と低水準で、資本効率に課題があります",
	},
	"roa": {
		"high":    "ROAは%.2f%%と高水準で、総資産を効率的に活用しています",
		"average": "ROAは%.2f%%と平均的な水準です",
		"low":     "ROAは%.2f%%と低水準です",
	},
	"operating_margin": {
		"high":    "売上高営業利益率は%.2f%%と高く、本業の収益性は良好です",
		"average": "売上高営業利益率は%.2f%%と平均的な水準です",
		"low":     "売上高営業利益率は%.2f%%と低く、収益性の改善が望まれます",
	},
	"equity_ratio": {
		"high":    "自己資本比率は%.2f%%と高く、財務の安全性は高い水準にあります",
		"average": "自己資本比率は%.2f%%と標準的な水準です",
		"low":     "自己資本比率は%.2f%%と低く、財務基盤の強化が望まれます",
	},
	"current_ratio": {
		"high":           "流動比率は%.2f%%と十分な短期支払能力を備えています",
		"average":        "流動比率は%.2f%%と標準的な水準です",
		"liquidity_risk": "流動比率は%.2f%%と100%%を下回っており、短期的な資金繰りに注意が必要です",
	},
	"fixed_ratio": {
		"within_equity": "固定比率は%.2f%%と固定資産への投資が自己資本の範囲内に収まっています",
		"over_equity":   "固定比率は%.2f%%と固定資産への投資が自己資本を上回っています",
	},
	"revenue_growth": {
		"positive": "売上高は前期比%.1f%%の増収となりました",
		"negative": "売上高は前期比%.1f%%の減収となりました",
	},
	"operating_income_growth": {
		"positive": "営業利益は前期比%.1f%%の増益となりました",
		"negative": "営業利益は前期比%.1f%%の減益となりました",
	},
	"net_income_growth": {
		"positive": "当期純利益は前期比%.1f%%の増益となりました",
		"negative": "当期純利益は前期比%.1f%%の減益となりました",
	},
}

// Achievement comments are keyed by color class and metric display name.
var achievementWording = map[string]string{
	ColorGood:    "%sの予想達成率は%.1f%%と好調です",
	ColorWarning: "%sの予想達成率は%.1f%%とやや未達です",
	ColorPoor:    "%sの予想達成率は%.1f%%と大幅な未達となっています",
}

var metricDisplayNames = map[string]string{
	"revenue":          "売上高",
	"operating_income": "営業利益",
	"net_income":       "当期純利益",
}

// Comment renders one finding as a Japanese sentence. Unknown categories
// yield the empty string, which callers drop.
func Comment(f Finding) string {
	byCategory, ok := wordingTable[f.Metric]
	if !ok {
		return segmentComment(f)
	}
	tmpl, ok := byCategory[f.Category]
	if !ok || f.Value == nil {
		return ""
	}
	return fmt.Sprintf(tmpl, *f.Value)
}

// AchievementComment renders a per-metric forecast judgment.
func AchievementComment(metric, color string, achievement float64) string {
	tmpl, ok := achievementWording[color]
	if !ok {
		return ""
	}
	name, ok := metricDisplayNames[metric]
	if !ok {
		name = metric
	}
	return fmt.Sprintf(tmpl, name, achievement)
}

// Comments maps findings through the wording table, dropping blanks.
func Comments(findings []Finding) []string {
	var out []string
	for _, f := range findings {
		if c := Comment(f); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// segmentComment handles segment findings, whose Metric field carries the
// segment name instead of a table key.
func segmentComment(f Finding) string {
	if f.Value == nil {
		return ""
	}
	switch f.Category {
	case "dominant":
		return fmt.Sprintf("%sが売上全体の%.1f%%を占めており、特定セグメントへの依存度が高い状態です", f.Metric, *f.Value)
	case "component":
		return fmt.Sprintf("%sは売上全体の%.1f%%を占めています", f.Metric, *f.Value)
	default:
		return ""
	}
}
