package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultTitle is used when no pattern matches: the contact is still
// useful, just untitled.
const defaultTitle = "Professional"

// titlePatterns are tried in order. Career-transition phrasing is the
// strongest signal, then explicit current-role phrasing, then
// keyword-adjacent guesses, then labeled fields.
var titlePatterns = []*regexp.Regexp{
	// "formerly Product Manager at Globex", "previously a data analyst at ..."
	regexp.MustCompile(`(?i)\b(?:formerly|previously)\s+(?:a\s+|an\s+|the\s+)?([A-Za-z][A-Za-z /&-]*?)\s+at\s+`),
	// "works as a senior engineer", "employed as an analyst"
	regexp.MustCompile(`(?i)\b(?:works as|working as|employed as|serves as)\s+(?:a\s+|an\s+|the\s+)?([^.;,|]+)`),
	// "is a Software Engineer at Acme"
	regexp.MustCompile(`(?i)\bis\s+(?:a|an)\s+([^.;,|]+?)\s+at\s+`),
	// "<Title> at <Company>" with a role keyword anchor.
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Za-z][A-Za-z&/-]*){0,5}?\s+(?:Engineer|Manager|Director|Developer|Designer|Analyst|Scientist|Specialist|Coordinator|Consultant|Architect|Lead|Officer|Recruiter|President))\s+at\b`),
	// "Title: Product Manager" / "Role: ..."
	regexp.MustCompile(`(?i)\b(?:title|position|role):\s*([^.\n|]+)`),
}

var leadingArticle = regexp.MustCompile(`(?i)^(?:a|an|the)\s+`)

// trailingClauses cut company/location tails off a matched title.
var trailingClauses = []string{" at ", " in ", " for ", " with ", " based "}

// minorWords stay lowercase when title-casing, except in first position.
var minorWords = map[string]bool{
	"of": true, "and": true, "or": true, "the": true, "a": true,
	"an": true, "for": true, "to": true, "in": true, "on": true,
	"at": true, "with": true,
}

var titleCaser = cases.Title(language.English)

// Title extracts a job title from combined title+snippet text, falling
// back to "Professional" when nothing matches.
func Title(text string) string {
	for _, pattern := range titlePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if t := cleanTitle(m[1]); t != "" {
			return t
		}
	}
	return defaultTitle
}

func cleanTitle(raw string) string {
	t := strings.TrimSpace(raw)

	// Drop trailing company/location clauses.
	lower := strings.ToLower(t)
	cut := len(t)
	for _, clause := range trailingClauses {
		if i := strings.Index(lower, clause); i >= 0 && i < cut {
			cut = i
		}
	}
	t = strings.TrimSpace(t[:cut])
	t = leadingArticle.ReplaceAllString(t, "")
	t = strings.Trim(t, " -–—|,")
	if t == "" {
		return ""
	}

	words := strings.Fields(t)
	if len(words) > 8 {
		words = words[:8]
	}

	for i, w := range words {
		if isAcronym(w) {
			continue
		}
		if i > 0 && minorWords[strings.ToLower(w)] {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = titleCaser.String(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// isAcronym keeps short all-caps tokens (VP, UX, HR) untouched.
func isAcronym(w string) bool {
	if len(w) < 2 || len(w) > 4 {
		return false
	}
	for _, r := range w {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
