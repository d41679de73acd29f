package tanshin

import (
	"regexp"
	"strings"
)

// Commentary sections are located by their standard headings. Wording varies
// slightly between issuers, so each section carries several heading patterns.
var (
	discussionHeadingRe = regexp.MustCompile(
		`経営成績に関する(?:説明|分析|定性的情報)|当期の経営成績|経営成績の概況|業績の概況`)
	outlookHeadingRe = regexp.MustCompile(
		`今後の見通し|将来予測情報|次期の見通し|業績予想に関する(?:説明|定性的情報)`)
	anyHeadingRe = regexp.MustCompile(
		`^[（(]?[0-9０-９一二三四五六七八九]+[）)．.]|^[①-⑩]|^【|^※`)
)

const maxCommentRunes = 2000

// extractComments pulls the management-discussion and outlook sections out of
// the document text. A section runs from its heading line to the next
// numbered heading, capped at maxCommentRunes.
func extractComments(text string) *CommentSections {
	lines := strings.Split(text, "\n")
	cs := &CommentSections{
		ManagementDiscussion: sectionAfter(lines, discussionHeadingRe),
		FutureOutlook:        sectionAfter(lines, outlookHeadingRe),
	}
	if cs.ManagementDiscussion == "" && cs.FutureOutlook == "" {
		return nil
	}
	return cs
}

// sectionAfter collects body lines following a heading match. Table-of-contents
// entries match the heading pattern too, so heading lines followed by nothing
// but more headings are skipped.
func sectionAfter(lines []string, heading *regexp.Regexp) string {
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !heading.MatchString(line) || len([]rune(line)) > 50 {
			continue
		}

		var body []string
		runes := 0
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				continue
			}
			// Next numbered heading ends the section.
			if anyHeadingRe.MatchString(next) && len([]rune(next)) < 50 && len(body) > 0 {
				break
			}
			// TOC entries are short heading-like lines with no prose between.
			if len([]rune(next)) < 25 && len(body) == 0 && anyHeadingRe.MatchString(next) {
				break
			}
			body = append(body, next)
			runes += len([]rune(next))
			if runes >= maxCommentRunes {
				break
			}
		}
		if len(body) > 0 {
			return truncateRunes(strings.Join(body, "\n"), maxCommentRunes)
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
