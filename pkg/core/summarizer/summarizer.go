// Package summarizer condenses the free-text management commentary of a
// filing into short summaries. The Gemini API does the condensing when a key
// is configured; otherwise a keyword-based local fallback runs. The
// summarizer never fails the pipeline: any error degrades to the fallback.
package summarizer

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"

	"tanshin_insight/pkg/core/report"
	"tanshin_insight/pkg/core/tanshin"
	"tanshin_insight/pkg/core/utils"
)

const defaultModel = "gemini-2.0-flash-exp"

const systemPrompt = `あなたは決算短信の定性的情報を要約するアナリストです。
与えられた文章を、それぞれ2〜3文の簡潔な日本語に要約してください。
出力は次のJSON形式のみ: {"management": "...", "outlook": "..."}`

// Summarizer condenses commentary sections. Zero value is usable; Model
// overrides the default Gemini model name.
type Summarizer struct {
	Model string
}

type summaryPayload struct {
	Management string `json:"management"`
	Outlook    string `json:"outlook"`
}

// Summarize produces management and outlook summaries from the extracted
// comment sections. Returns nil when there is nothing to summarize.
func (s *Summarizer) Summarize(ctx context.Context, comments *tanshin.CommentSections) *report.Summaries {
	if comments == nil || (comments.ManagementDiscussion == "" && comments.FutureOutlook == "") {
		return nil
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Printf("[Summarizer] GEMINI_API_KEY not set, using local fallback")
		return localSummaries(comments)
	}

	summaries, err := s.summarizeWithGemini(ctx, comments)
	if err != nil {
		log.Printf("[Summarizer] Gemini summarization failed, using local fallback: %v", err)
		return localSummaries(comments)
	}
	return summaries
}

func (s *Summarizer) summarizeWithGemini(ctx context.Context, comments *tanshin.CommentSections) (*report.Summaries, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := s.Model
	if model == "" {
		model = defaultModel
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	prompt := fmt.Sprintf("【経営成績に関する説明】\n%s\n\n【今後の見通し】\n%s",
		comments.ManagementDiscussion, comments.FutureOutlook)

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	return decodeSummaries(result.Text())
}

// decodeSummaries turns raw model output into summaries: strip the code
// fence, decode the JSON leniently, then check that the summary text parses
// as markdown. Any failure sends the caller to the local fallback.
func decodeSummaries(raw string) (*report.Summaries, error) {
	var payload summaryPayload
	if _, err := utils.SmartParse(utils.CleanMarkdown(raw), &payload); err != nil {
		return nil, fmt.Errorf("unparseable summarizer output: %w", err)
	}
	if payload.Management == "" && payload.Outlook == "" {
		return nil, fmt.Errorf("summarizer returned empty summaries")
	}
	if !utils.ValidateMarkdown(payload.Management) || !utils.ValidateMarkdown(payload.Outlook) {
		return nil, fmt.Errorf("summarizer output failed markdown validation")
	}
	return &report.Summaries{Management: payload.Management, Outlook: payload.Outlook}, nil
}

// Keyword patterns the local fallback scores sentences by. A sentence naming
// results or direction beats generic prose.
var summaryKeywords = []string{
	"増収", "減収", "増益", "減益", "過去最高", "上方修正", "下方修正",
	"売上高", "営業利益", "前期比", "前年同期比", "見込", "予想", "計画",
}

// localSummaries picks the highest-scoring sentences from each section.
func localSummaries(comments *tanshin.CommentSections) *report.Summaries {
	return &report.Summaries{
		Management: pickSentences(comments.ManagementDiscussion, 2),
		Outlook:    pickSentences(comments.FutureOutlook, 2),
	}
}

func pickSentences(text string, limit int) string {
	if text == "" {
		return ""
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	type scored struct {
		idx   int
		score int
	}
	var ranked []scored
	for i, sentence := range sentences {
		score := 0
		for _, kw := range summaryKeywords {
			if strings.Contains(sentence, kw) {
				score++
			}
		}
		ranked = append(ranked, scored{i, score})
	}

	// Highest score wins; ties keep document order.
	var picks []int
	for len(picks) < limit && len(picks) < len(ranked) {
		best := -1
		for _, r := range ranked {
			if contains(picks, r.idx) {
				continue
			}
			if best == -1 || r.score > ranked[best].score {
				best = r.idx
			}
		}
		if best == -1 || ranked[best].score == 0 && len(picks) > 0 {
			break
		}
		picks = append(picks, best)
	}

	// Re-emit in document order.
	var out []string
	for i := range sentences {
		if contains(picks, i) {
			out = append(out, sentences[i]+"。")
		}
	}
	return strings.Join(out, "")
}

func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", "")
	var out []string
	for _, s := range strings.Split(text, "。") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
