package tripdetect

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"posawiki/internal/textutil"
)

// Match is the result of an explicit part marker matching a title.
type Match struct {
	BaseTitle  string
	Kind       PatternKind
	PartNumber int
	TotalParts *int
}

// SeriesKey groups matches that belong to the same series: the base title
// plus the declared total when known, otherwise the marker kind.
func (m Match) SeriesKey() string {
	if m.TotalParts != nil {
		return m.BaseTitle + "___PARTS_" + strconv.Itoa(*m.TotalParts)
	}
	return m.BaseTitle + "___TYPE_" + string(m.Kind)
}

type partPattern struct {
	kind PatternKind
	re   *regexp.Regexp
	// hasTotal marks patterns whose third group is the declared part count.
	hasTotal bool
}

// partPatterns is evaluated in order; the first match wins.
var partPatterns = []partPattern{
	{PatternPartOf, regexp.MustCompile(`(?i)(.+?)\s*\(?\s*part\s+(\d+)\s*of\s+(\d+)\s*\)?`), true},
	{PatternEpisode, regexp.MustCompile(`(?i)(.+?)\s*\(?\s*episode\s+(\d+)`), false},
	{PatternDay, regexp.MustCompile(`(?i)(.+?)\s*-\s*day\s+(\d+)`), false},
	{PatternNight, regexp.MustCompile(`(?i)(.+?)\s*-\s*night\s+(\d+)`), false},
	{PatternBracketPart, regexp.MustCompile(`(?i)(.+?)\s*\[(\d+)\s*of\s*(\d+)\]`), true},
}

// MatchTitle tries each explicit part pattern in order and returns the first
// match.
func MatchTitle(title string) (Match, bool) {
	for _, p := range partPatterns {
		groups := p.re.FindStringSubmatch(title)
		if groups == nil {
			continue
		}
		part, err := strconv.Atoi(groups[2])
		if err != nil {
			continue
		}
		m := Match{
			BaseTitle:  cleanBaseTitle(groups[1]),
			Kind:       p.kind,
			PartNumber: part,
		}
		if p.hasTotal {
			if total, err := strconv.Atoi(groups[3]); err == nil {
				m.TotalParts = intPtr(total)
			}
		}
		return m, true
	}
	return Match{}, false
}

// cleanBaseTitle trims whitespace and dangling separators left in front of a
// part marker ("Winter Trip -" becomes "Winter Trip").
func cleanBaseTitle(raw string) string {
	trimmed := strings.TrimSpace(raw)
	cleaned := strings.TrimSpace(strings.TrimRight(trimmed, "-–—:|,( "))
	if cleaned == "" {
		return trimmed
	}
	return cleaned
}

// stripPatterns remove title decorations, applied in order to the
// progressively shortened title.
var stripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*.*`),
	regexp.MustCompile(`(?i)\s*\(.*?\)`),
	regexp.MustCompile(`(?i)\s*\[.*?\]`),
	regexp.MustCompile(`(?i)\s+with\s+.*`),
	regexp.MustCompile(`(?i)\s+in\s+.*`),
}

// DeriveBaseTitle strips trailing dash clauses, parentheticals, bracketed
// text, "with ..." and "in ..." clauses from title. Remaining whitespace
// runs collapse to one space.
func DeriveBaseTitle(title string) string {
	base := title
	for _, re := range stripPatterns {
		base = re.ReplaceAllString(base, "")
	}
	return textutil.CollapseSpace(base)
}

// TripScore counts how many keywords occur in the lowercased title.
func TripScore(title string, keywords []string) int {
	lowered := textutil.Lower(title)
	score := 0
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(lowered, keyword) {
			score++
		}
	}
	return score
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
