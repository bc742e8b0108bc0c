package model

import "strings"

// QueryIntent identifies which stage of the search plan produced a query.
type QueryIntent string

const (
	IntentColleague QueryIntent = "colleague" // former-employer priority sweep
	IntentSchool    QueryIntent = "school"    // school-alumni priority sweep
	IntentBroad     QueryIntent = "broad"     // role-taxonomy coverage sweep
	IntentExecutive QueryIntent = "executive" // supplementary executive/network sweep
)

// IsPriority reports whether the intent belongs to the priority sub-group.
func (i QueryIntent) IsPriority() bool {
	return i == IntentColleague || i == IntentSchool
}

// SearchQuery is a single search-engine query with its originating intent.
// Queries are immutable once built and consumed exactly once by the gateway.
type SearchQuery struct {
	Text   string      `json:"text"`
	Intent QueryIntent `json:"intent"`
	// Reason is the human-readable priority attribution carried onto
	// candidates found via this query, e.g. "Stanford Alumni" or
	// "Former Google Colleague". Empty for broad/executive queries.
	Reason string `json:"reason,omitempty"`
	Weight int    `json:"weight"`
}

// RawResult is one unparsed item returned by the search provider.
type RawResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// ContactSource describes where a candidate profile was found.
type ContactSource string

const (
	SourceSearch ContactSource = "search"
	SourceSocial ContactSource = "social"
	SourceSite   ContactSource = "site"
)

// ProfileCandidate is an extracted, not-yet-classified person profile.
// Name is always non-empty: extraction drops results it cannot name.
type ProfileCandidate struct {
	Name           string        `json:"name"`
	JobTitle       string        `json:"job_title"`
	Snippet        string        `json:"snippet"`
	SourceLink     string        `json:"source_link"`
	Company        string        `json:"company"`
	Source         ContactSource `json:"source"`
	IsPriority     bool          `json:"is_priority"`
	PriorityReason string        `json:"priority_reason,omitempty"`

	// Exactly one score is set, depending on which sweep found the
	// candidate. Absent scores count as zero when ranking.
	PriorityScore int `json:"priority_score,omitempty"`
	QualityScore  int `json:"quality_score,omitempty"`
	NetworkScore  int `json:"network_score,omitempty"`
}

// TotalScore sums whichever score fields are present.
func (c ProfileCandidate) TotalScore() int {
	return c.PriorityScore + c.QualityScore + c.NetworkScore
}

// IdentityKey returns the deduplication key: normalized name joined with
// normalized company. Two candidates with the same key are the same person.
func (c ProfileCandidate) IdentityKey() string {
	return Normalize(c.Name) + "|" + Normalize(c.Company)
}

// Normalize case-folds a string and strips every non-alphanumeric rune.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ConnectionType is the categorical label describing why a contact matters.
type ConnectionType string

const (
	SchoolAlumni    ConnectionType = "School Alumni"
	WorkAlumni      ConnectionType = "Work Alumni"
	IndustryContact ConnectionType = "Industry Contact"
	DirectContact   ConnectionType = "Direct Contact"
)

// Seniority buckets a contact's level.
type Seniority string

const (
	SeniorityJunior    Seniority = "Junior"
	SeniorityMid       Seniority = "Mid"
	SenioritySenior    Seniority = "Senior"
	SeniorityExecutive Seniority = "Executive"
)

// ParseSeniority maps free-form classifier output onto a Seniority bucket,
// defaulting to Mid for anything unrecognized.
func ParseSeniority(s string) Seniority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "junior":
		return SeniorityJunior
	case "senior":
		return SenioritySenior
	case "executive":
		return SeniorityExecutive
	default:
		return SeniorityMid
	}
}

// EnrichedContact is a ProfileCandidate annotated by the classifier.
type EnrichedContact struct {
	ProfileCandidate

	ConnectionType ConnectionType `json:"connection_type"`
	Department     string         `json:"department"`
	Seniority      Seniority      `json:"seniority"`
	ResponseRate   int            `json:"response_rate"` // 1..10
	OutreachTip    string         `json:"outreach_tip"`
}

// FinalConnection is the terminal entity handed to presentation: an
// enriched contact plus generated email candidates.
type FinalConnection struct {
	EnrichedContact

	PrimaryEmail     string   `json:"primary_email"`
	AllEmailPatterns []string `json:"all_email_patterns"`
	EmailConfidence  int      `json:"email_confidence"` // 0..95, never verified
}
