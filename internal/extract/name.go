package extract

import (
	"regexp"
	"strings"
)

const roleKeywords = `Senior|Junior|Staff|Principal|Lead|Chief|Head|VP|Vice|Director|Manager|Engineer|Developer|Designer|Scientist|Analyst|Architect|Product|Software|Data|Marketing|Sales|Founder|CEO|CTO|CFO|COO|Recruiter|Consultant`

// namePatterns are tried in order, most specific first. Profile page
// titles usually lead with the person's name, e.g.
// "John Smith - Senior Engineer at Acme | LinkedIn".
var namePatterns = []*regexp.Regexp{
	// Name immediately followed by a separator and a seniority/role keyword.
	regexp.MustCompile(`^([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*){1,3})\s*[-–—|,]\s*(?:` + roleKeywords + `)\b`),
	// Leading segment before the first separator.
	regexp.MustCompile(`^([^-–—|,]+)[-–—|,]`),
	// Two to four consecutive capitalized tokens anywhere in the title.
	regexp.MustCompile(`([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*){1,3})`),
}

var (
	honorificPrefix = regexp.MustCompile(`^(?i:Dr|Mr|Ms|Mrs|Prof)\.?\s+`)
	nameSuffix      = regexp.MustCompile(`(?i)(?:[,\s]+(?:Jr|Sr|II|III|IV|PhD|Ph\.D|MBA|MD|CPA|Esq)\.?)+$`)
	nameCharset     = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*$`)
	anyDigit        = regexp.MustCompile(`[0-9]`)
)

// trailingArtifacts are site furniture words stuck onto titles that must
// never survive into a person name.
var trailingArtifacts = map[string]bool{
	"linkedin": true,
	"profile":  true,
	"profiles": true,
}

// titleWords is the vocabulary of job-title tokens. A "name" made entirely
// of these is a job title that leaked through pattern matching, not a
// person.
var titleWords = map[string]bool{
	"senior": true, "junior": true, "staff": true, "principal": true,
	"lead": true, "chief": true, "head": true, "vice": true,
	"president": true, "director": true, "manager": true, "engineer": true,
	"engineering": true, "developer": true, "designer": true,
	"scientist": true, "analyst": true, "architect": true, "product": true,
	"software": true, "data": true, "marketing": true, "sales": true,
	"executive": true, "officer": true, "specialist": true,
	"coordinator": true, "recruiter": true, "consultant": true,
	"associate": true, "assistant": true, "intern": true, "founder": true,
	"ceo": true, "cto": true, "cfo": true, "coo": true, "vp": true,
	"professional": true, "technical": true, "program": true,
	"project": true, "business": true, "operations": true, "growth": true,
	"human": true, "resources": true, "linkedin": true, "profile": true,
}

// Name extracts a person name from a result title, or returns "" when no
// pattern yields a valid name. First matching pattern wins.
func Name(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	for _, pattern := range namePatterns {
		m := pattern.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		if name := cleanName(m[1]); validName(name) {
			return name
		}
	}
	return ""
}

func cleanName(raw string) string {
	name := strings.TrimSpace(raw)
	name = honorificPrefix.ReplaceAllString(name, "")
	name = nameSuffix.ReplaceAllString(name, "")

	words := strings.Fields(name)
	for len(words) > 0 && trailingArtifacts[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

func validName(name string) bool {
	if len(name) < 3 || len(name) > 49 {
		return false
	}
	if anyDigit.MatchString(name) {
		return false
	}
	if !nameCharset.MatchString(name) {
		return false
	}

	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return false
	}

	// Reject strings made entirely of job-title vocabulary.
	allTitleWords := true
	for _, w := range words {
		if !titleWords[strings.ToLower(strings.Trim(w, "."))] {
			allTitleWords = false
			break
		}
	}
	return !allTitleWords
}
