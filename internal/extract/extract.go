// Package extract converts raw search results into profile candidates.
// All extraction is heuristic string work over noisy snippet text; results
// that cannot be confidently named are dropped, not guessed at.
package extract

import (
	"strings"

	"github.com/connectsphere/connect-cli/internal/model"
)

// profilePathMarker is the URL fragment identifying a personal profile
// page. Anything else (company pages, job posts, articles) is discarded.
const profilePathMarker = "linkedin.com/in/"

// presentIndicators suggest the person currently holds the role.
var presentIndicators = []string{
	"currently",
	"works at",
	"working at",
	"works as",
	"working as",
	"employed at",
	"now at",
	"is a ",
	"is an ",
	"present",
}

// formerIndicators suggest past employment only.
var formerIndicators = []string{
	"former",
	"formerly",
	"previously",
	"ex-",
	"used to work",
	"no longer",
	"was a ",
	"was an ",
	"left ",
	"departed",
	"past:",
}

// EligibleLink reports whether a result link points at a personal profile
// page.
func EligibleLink(link string) bool {
	return strings.Contains(strings.ToLower(link), profilePathMarker)
}

// CurrentlyAt decides whether the combined title+snippet text describes
// someone currently working at the target company. The company must be
// mentioned at all; then an explicit "at <company>" phrase or a
// present-tense indicator confirms current employment, a former-employment
// indicator rejects it, and a bare mention with no tense signal defaults
// to current.
func CurrentlyAt(text, company string) bool {
	t := strings.ToLower(text)
	c := strings.ToLower(strings.TrimSpace(company))
	if c == "" || !strings.Contains(t, c) {
		return false
	}

	if strings.Contains(t, "at "+c) || strings.Contains(t, "@ "+c) || strings.Contains(t, "@"+c) {
		return true
	}
	for _, p := range presentIndicators {
		if strings.Contains(t, p) {
			return true
		}
	}
	for _, f := range formerIndicators {
		if strings.Contains(t, f) {
			return false
		}
	}
	return true
}

// Extract converts one raw result into a profile candidate. Returns false
// when the result is not a profile page, does not describe a current
// employee of the company, or yields no valid person name.
func Extract(r model.RawResult, company string) (model.ProfileCandidate, bool) {
	if !EligibleLink(r.Link) {
		return model.ProfileCandidate{}, false
	}

	combined := r.Title + " " + r.Snippet
	if !CurrentlyAt(combined, company) {
		return model.ProfileCandidate{}, false
	}

	name := Name(r.Title)
	if name == "" {
		return model.ProfileCandidate{}, false
	}

	return model.ProfileCandidate{
		Name:       name,
		JobTitle:   Title(combined),
		Snippet:    r.Snippet,
		SourceLink: r.Link,
		Company:    company,
		Source:     model.SourceSearch,
	}, true
}
