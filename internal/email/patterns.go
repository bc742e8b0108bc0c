package email

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern forms, canonical order. f = first name, l = last name, f0 = first
// initial. The order reflects real-world prevalence before any per-domain
// preference is applied.
const (
	formFirstDotLast    = "f.l"
	formFirst           = "f"
	formInitialDotLast  = "f0.l"
	formFirstLast       = "fl"
	formFirstUnderLast  = "f_l"
	formInitialLast     = "f0l"
	formLastDotFirst    = "l.f"
	formFirstPlusLast   = "f+l"
)

var canonicalForms = []string{
	formFirstDotLast,
	formFirst,
	formInitialDotLast,
	formFirstLast,
	formFirstUnderLast,
	formInitialLast,
	formLastDotFirst,
	formFirstPlusLast,
}

// baseScores holds the prevalence-derived base score per pattern form.
var baseScores = map[string]int{
	formFirstDotLast:   85,
	formInitialDotLast: 75,
	formFirstLast:      70,
	formFirstUnderLast: 65,
	formFirst:          60,
	formInitialLast:    60,
	formLastDotFirst:   45,
	formFirstPlusLast:  30,
}

// defaultBaseScore applies to an address whose local part matches none of
// the known forms.
const defaultBaseScore = 40

// domainPreferences reorders the canonical form list for domains whose
// convention is publicly well known. Preferred forms move to the front;
// unlisted domains keep the canonical order.
var domainPreferences = map[string][]string{
	"google.com":     {formFirstDotLast, formFirst},
	"microsoft.com":  {formFirstLast, formFirstDotLast},
	"apple.com":      {formInitialLast, formFirstUnderLast},
	"amazon.com":     {formFirst, formFirstLast},
	"meta.com":       {formFirst, formFirstDotLast},
	"netflix.com":    {formFirstLast, formFirst},
	"stripe.com":     {formFirst, formFirstDotLast},
	"salesforce.com": {formFirstDotLast, formInitialLast},
	"uber.com":       {formFirst, formFirstDotLast},
	"airbnb.com":     {formFirstDotLast, formFirst},
}

// enterpriseDomains get a scoring boost: large companies run real mail
// infrastructure, so a well-formed pattern there is more likely to resolve.
var enterpriseDomains = []string{
	"microsoft.com", "google.com", "apple.com", "amazon.com", "meta.com",
	"netflix.com", "uber.com", "airbnb.com", "stripe.com", "salesforce.com",
}

var emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// local renders a pattern form into a local part for the given names.
func local(form, first, last string) string {
	f := strings.ToLower(first)
	l := strings.ToLower(last)
	f0 := ""
	if f != "" {
		f0 = f[:1]
	}
	switch form {
	case formFirstDotLast:
		return f + "." + l
	case formFirst:
		return f
	case formInitialDotLast:
		return f0 + "." + l
	case formFirstLast:
		return f + l
	case formFirstUnderLast:
		return f + "_" + l
	case formInitialLast:
		return f0 + l
	case formLastDotFirst:
		return l + "." + f
	case formFirstPlusLast:
		return f + "+" + l
	}
	return ""
}

// Patterns generates the full candidate address list for a first/last name
// pair at a domain, in canonical order (no per-domain reordering applied).
func Patterns(first, last, domain string) []string {
	out := make([]string, 0, len(canonicalForms))
	for _, form := range canonicalForms {
		out = append(out, local(form, first, last)+"@"+domain)
	}
	return out
}

// ReorderForDomain applies the per-domain preference list to a candidate
// address slice, moving known-preferred forms to the front while keeping
// the relative order of everything else.
func ReorderForDomain(patterns []string, first, last, domain string) []string {
	prefs, ok := domainPreferences[strings.ToLower(domain)]
	if !ok {
		return patterns
	}

	preferred := make([]string, 0, len(prefs))
	for _, form := range prefs {
		preferred = append(preferred, local(form, first, last)+"@"+domain)
	}

	out := make([]string, 0, len(patterns))
	seen := make(map[string]bool, len(preferred))
	for _, p := range preferred {
		for _, candidate := range patterns {
			if candidate == p && !seen[p] {
				out = append(out, p)
				seen[p] = true
			}
		}
	}
	for _, candidate := range patterns {
		if !seen[candidate] {
			out = append(out, candidate)
			seen[candidate] = true
		}
	}
	return out
}

// Verdict is the heuristic assessment of one candidate address. Scores are
// pattern-derived and capped at 95: this is never a verified
// deliverability signal.
type Verdict struct {
	Email      string `json:"email"`
	Score      int    `json:"score"`
	IsValid    bool   `json:"is_valid"`
	Confidence string `json:"confidence"` // High / Medium / Low
	Pattern    string `json:"pattern"`    // local part
}

// maxScore caps pattern-derived scores below 100 to signal "never verified".
const maxScore = 95

// ScorePattern assigns a confidence score to a candidate address built from
// the given names and domain.
func ScorePattern(addr, first, last, domain string) Verdict {
	score := defaultBaseScore
	localPart, _, found := strings.Cut(addr, "@")
	if found {
		for form, base := range baseScores {
			if local(form, first, last) == localPart {
				score = base
				break
			}
		}
	}

	d := strings.ToLower(domain)
	if strings.HasSuffix(d, ".com") {
		score += 10
	}
	if len(strings.Split(d, ".")) == 2 {
		score += 5
	}
	for _, ed := range enterpriseDomains {
		if d == ed {
			score += 15
			break
		}
	}

	if !emailShape.MatchString(addr) {
		score -= 30
	}

	if len(addr) > 35 {
		score -= 10
	}
	if len(addr) > 45 {
		score -= 20
	}

	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}

	return Verdict{
		Email:      addr,
		Score:      score,
		IsValid:    score > 50,
		Confidence: confidenceLabel(score),
		Pattern:    localPart,
	}
}

func confidenceLabel(score int) string {
	switch {
	case score > 80:
		return "High"
	case score > 60:
		return "Medium"
	default:
		return "Low"
	}
}

// Enrichment is the email guess attached to one contact.
type Enrichment struct {
	Primary    string   `json:"primary"`
	Patterns   []string `json:"patterns"`
	Confidence int      `json:"confidence"`
}

// Engine generates and scores candidate addresses for contacts. Only the
// first few candidates are scored per contact to bound per-run cost; the
// full pattern list is still retained on the result.
type Engine struct {
	maxScored int
}

// NewEngine returns an Engine that scores the top 3 candidate patterns.
func NewEngine() *Engine {
	return &Engine{maxScored: 3}
}

// Enrich splits a display name into first/last parts, generates the
// domain-ordered candidate list, scores the leading candidates, and returns
// the best guess. Returns false for names without at least two parts.
func (e *Engine) Enrich(name, domain string) (Enrichment, bool) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return Enrichment{}, false
	}
	first := parts[0]
	last := parts[len(parts)-1]

	patterns := ReorderForDomain(Patterns(first, last, domain), first, last, domain)

	best := Verdict{}
	n := e.maxScored
	if n > len(patterns) {
		n = len(patterns)
	}
	for _, addr := range patterns[:n] {
		if v := ScorePattern(addr, first, last, domain); v.Score > best.Score {
			best = v
		}
	}

	primary := best.Email
	if primary == "" {
		primary = patterns[0]
	}

	return Enrichment{
		Primary:    primary,
		Patterns:   patterns,
		Confidence: best.Score,
	}, true
}

// String implements fmt.Stringer for log output.
func (v Verdict) String() string {
	return fmt.Sprintf("%s (%d/%s)", v.Email, v.Score, v.Confidence)
}
