package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var (
	// Either "Score: <n>" or "<n>%", whichever comes first on the line. A decimal
	// fraction before the percent sign is ignored.
	scorePattern = regexp.MustCompile(`(?i)\bscore\s*:\s*(\d+)|(\d+)(?:\.\d+)?%`)

	numberedBullet = regexp.MustCompile(`^\d{1,2}[.)]\s+`)
	ruleLine       = regexp.MustCompile(`^[-*_=]{3,}$`)

	adviceLabels = []string{"general advice", "improvements", "suggestions"}
)

type FeedbackParser interface {
	Parse(raw string) models.AnalysisReport
}

type feedbackParser struct{}

func NewFeedbackParser() FeedbackParser {
	return feedbackParser{}
}

// Parse implements FeedbackParser.
func (feedbackParser) Parse(raw string) models.AnalysisReport {
	return ParseFeedback(raw)
}

// ParseFeedback turns a loosely formatted analysis into a report. It never fails: text
// without any recognizable structure gives an empty report with an absent score.
func ParseFeedback(raw string) models.AnalysisReport {
	lines := splitLines(raw)
	report := models.NewAnalysisReport()

	score, consumed := findScore(lines)
	report.Score = score

	sc := feedbackScanner{report: &report, section: -1}
	for i, line := range lines {
		if consumed[i] {
			continue
		}
		sc.scan(line)
	}

	return report
}

func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// findScore looks at the first group of non-empty lines only. The first line with a
// match wins; a value outside [0,100] is reported as absent. The returned set holds the
// lines that belong to the score: the matched line, unless it is a labelled section with
// text of its own, and a bare "Score:" header right above it.
func findScore(lines []string) (*int, map[int]bool) {
	consumed := make(map[int]bool, 2)
	started := false
	header := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			if started {
				break
			}
			continue
		}
		started = true

		loc := scorePattern.FindStringSubmatchIndex(line)
		if loc == nil {
			if isScoreHeader(line) {
				header = i
			} else {
				header = -1
			}
			continue
		}

		if !keepsSection(line, loc[0], loc[1]) {
			consumed[i] = true
		}
		if header == i-1 && header >= 0 {
			consumed[header] = true
		}

		digits := submatch(line, loc, 1)
		if digits == "" {
			digits = submatch(line, loc, 2)
		}
		value, err := strconv.Atoi(digits)
		if err != nil || value < 0 || value > 100 {
			return nil, consumed
		}
		return &value, consumed
	}
	return nil, consumed
}

func submatch(s string, loc []int, group int) string {
	if loc[2*group] < 0 {
		return ""
	}
	return s[loc[2*group]:loc[2*group+1]]
}

// isScoreHeader matches a "Score:" line whose number sits on the next line.
func isScoreHeader(line string) bool {
	content, _ := stripBullet(strings.TrimSpace(line))
	label, detail, ok := splitLabel(content)
	return ok && detail == "" && isScoreLabel(label)
}

func isScoreLabel(label string) bool {
	return strings.Contains(strings.ToLower(label), "score")
}

// keepsSection reports whether the score line is also a real section, such as
// "Skills: Add 20% more keywords", that still says something once the score is removed.
func keepsSection(line string, start, end int) bool {
	content, _ := stripBullet(strings.TrimSpace(line[:start] + line[end:]))
	label, detail, ok := splitLabel(content)
	if !ok || isScoreLabel(label) {
		return false
	}
	return strings.IndexFunc(detail, unicode.IsLetter) >= 0
}

type feedbackScanner struct {
	report *models.AnalysisReport

	// index into report.Sections of the section taking continuations, or -1
	section    int
	advice     bool
	adviceOpen bool
}

func (s *feedbackScanner) scan(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || ruleLine.MatchString(trimmed) {
		s.blank()
		return
	}

	content, bullet := stripBullet(trimmed)
	if content == "" {
		return
	}
	label, detail, hasLabel := splitLabel(content)

	if !bullet {
		if !hasLabel && isAdviceHeading(content) {
			s.enterAdvice("")
			return
		}
		if hasLabel && isAdviceLabel(label) {
			s.enterAdvice(detail)
			return
		}
	}

	if s.advice {
		switch {
		case hasLabel && !bullet:
			s.startSection(label, detail)
		case !bullet && s.adviceOpen && len(s.report.GeneralAdvice) > 0:
			last := len(s.report.GeneralAdvice) - 1
			s.report.GeneralAdvice[last] = joinFragment(s.report.GeneralAdvice[last], content)
		default:
			s.report.GeneralAdvice = append(s.report.GeneralAdvice, content)
			s.adviceOpen = true
		}
		return
	}

	switch {
	case hasLabel && (!bullet || s.section < 0):
		s.startSection(label, detail)
	case s.section >= 0:
		sec := &s.report.Sections[s.section]
		sec.Detail = joinFragment(sec.Detail, content)
	}
}

// blank closes a section that already has text. A bare "Label:" header followed by a
// blank line keeps accepting the lines under it.
func (s *feedbackScanner) blank() {
	s.adviceOpen = false
	if s.section >= 0 && s.report.Sections[s.section].Detail != "" {
		s.section = -1
	}
}

func (s *feedbackScanner) enterAdvice(first string) {
	s.advice = true
	s.adviceOpen = false
	s.section = -1
	if first != "" {
		s.report.GeneralAdvice = append(s.report.GeneralAdvice, first)
		s.adviceOpen = true
	}
}

func (s *feedbackScanner) startSection(label, detail string) {
	s.advice = false
	s.adviceOpen = false
	s.report.Sections = append(s.report.Sections, models.Section{Label: label, Detail: detail})
	s.section = len(s.report.Sections) - 1
}

func joinFragment(existing, fragment string) string {
	if existing == "" {
		return fragment
	}
	return existing + " " + fragment
}

// stripBullet removes one leading list marker. A marker must be followed by whitespace
// or stand alone, so "*Skills:*" emphasis and "-5%" are not bullets.
func stripBullet(s string) (string, bool) {
	r, size := utf8.DecodeRuneInString(s)
	switch r {
	case '-', '*', '+', '•':
		rest := s[size:]
		if rest == "" {
			return "", true
		}
		next, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsSpace(next) {
			return strings.TrimSpace(rest), true
		}
		return s, false
	}
	if loc := numberedBullet.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:]), true
	}
	return s, false
}

// splitLabel splits "Label: detail" on the first colon. URLs and clock times are not
// labels.
func splitLabel(content string) (string, string, bool) {
	idx := strings.Index(content, ":")
	if idx <= 0 {
		return "", "", false
	}
	rest := content[idx+1:]
	if strings.HasPrefix(rest, "//") {
		return "", "", false
	}

	label := cleanLabel(content[:idx])
	if label == "" || isDigits(label) {
		return "", "", false
	}
	detail := strings.TrimSpace(strings.TrimLeft(rest, "*_ \t"))
	return label, detail, true
}

func cleanLabel(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_#`"))
}

func isAdviceLabel(label string) bool {
	normalized := strings.Join(strings.Fields(strings.ToLower(label)), " ")
	if normalized == "" {
		return false
	}
	for _, sentinel := range adviceLabels {
		if normalized == sentinel || strings.HasSuffix(normalized, " "+sentinel) {
			return true
		}
	}
	return false
}

// isAdviceHeading matches a bare heading line such as "Suggestions" with no delimiter.
func isAdviceHeading(content string) bool {
	heading := strings.ToLower(cleanLabel(strings.TrimSuffix(content, ":")))
	heading = strings.Join(strings.Fields(heading), " ")
	for _, sentinel := range adviceLabels {
		if heading == sentinel {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
