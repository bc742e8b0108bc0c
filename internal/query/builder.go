// Package query builds the ordered, intent-tagged search plan for one
// discovery run. Pure string work: no network, no side effects.
package query

import (
	"fmt"
	"strings"

	"github.com/connectsphere/connect-cli/internal/model"
)

const (
	// WeightColleague ranks verified former-employer matches above school
	// matches: a shared employer is the stronger networking signal.
	WeightColleague = 10
	WeightSchool    = 7
	WeightBroad     = 5
	WeightExecutive = 3
)

// profileSite scopes every query to personal profile pages.
const profileSite = `site:linkedin.com/in/`

// entitySuffixes are organization-name suffixes stripped when generating
// name variants, so "Stanford University" also matches "Stanford" in
// snippet text.
var entitySuffixes = []string{
	"university", "college", "school", "institute",
	"inc", "inc.", "incorporated", "corp", "corp.", "corporation",
	"llc", "ltd", "ltd.", "co", "co.", "company", "technologies", "labs",
}

// roleGroups is the fixed function taxonomy for broad coverage sweeps.
var roleGroups = []string{
	`(software engineer OR developer OR "software development")`,
	`(product manager OR "product management")`,
	`(data scientist OR "data science" OR analytics)`,
	`(designer OR "user experience" OR UX)`,
	`(marketing OR "growth marketing")`,
	`(sales OR "business development")`,
	`(HR OR "human resources" OR recruiting)`,
	`(executive OR director OR VP OR "vice president")`,
}

// executiveGroups are the supplementary leadership/network sweeps issued
// after the broad taxonomy.
var executiveGroups = []string{
	`(CEO OR founder OR "chief executive")`,
	`(CTO OR "chief technology" OR "head of engineering")`,
	`(senior OR principal OR staff OR lead)`,
	`(intern OR junior OR associate OR coordinator)`,
}

// colleagueQualifiers broaden recall on former-employment phrasing.
var colleagueQualifiers = []string{
	`(former OR previous OR ex)`,
	`(worked OR experience OR alumni)`,
}

// schoolQualifiers broaden recall on education phrasing.
var schoolQualifiers = []string{
	`(alumni OR graduated OR studied)`,
	`(university OR college OR school)`,
	`(bachelor OR master OR degree OR PhD)`,
}

// Params are the four inputs a search plan is derived from.
type Params struct {
	TargetCompany   string
	PreviousCompany string
	School          string
	// MaxQueries caps the total plan size. Zero means no cap.
	MaxQueries int
}

// Variants generates recall-broadening name variants for an entity: the
// full name, the suffix-stripped name, the first token, the first two
// tokens, and an acronym of initials. Duplicates are removed, order kept.
func Variants(entity string) []string {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}

	add(entity)
	add(stripSuffix(entity))

	tokens := strings.Fields(entity)
	add(tokens[0])
	if len(tokens) >= 2 {
		add(tokens[0] + " " + tokens[1])
	}
	if len(tokens) >= 2 {
		var initials strings.Builder
		for _, tok := range tokens {
			r := []rune(tok)
			initials.WriteRune(r[0])
		}
		add(strings.ToUpper(initials.String()))
	}

	return out
}

// stripSuffix removes one trailing organization suffix, if present.
func stripSuffix(entity string) string {
	tokens := strings.Fields(entity)
	if len(tokens) < 2 {
		return entity
	}
	last := strings.ToLower(tokens[len(tokens)-1])
	for _, suffix := range entitySuffixes {
		if last == suffix {
			return strings.Join(tokens[:len(tokens)-1], " ")
		}
	}
	return entity
}

// Build produces the full ordered search plan: colleague priority queries,
// then school priority queries, then the broad role taxonomy, then the
// supplementary executive sweeps. Each query carries its intent and weight
// so downstream stages can attribute priority.
func Build(p Params) []model.SearchQuery {
	var queries []model.SearchQuery

	if p.PreviousCompany != "" {
		reason := fmt.Sprintf("Former %s Colleague", p.PreviousCompany)
		for _, variant := range Variants(p.PreviousCompany) {
			for _, qual := range colleagueQualifiers {
				queries = append(queries, model.SearchQuery{
					Text:   fmt.Sprintf(`%s "%s" "%s" %s`, profileSite, p.TargetCompany, variant, qual),
					Intent: model.IntentColleague,
					Reason: reason,
					Weight: WeightColleague,
				})
			}
			queries = append(queries, model.SearchQuery{
				Text:   fmt.Sprintf(`%s "%s" "formerly %s" OR "ex-%s"`, profileSite, p.TargetCompany, variant, variant),
				Intent: model.IntentColleague,
				Reason: reason,
				Weight: WeightColleague,
			})
		}
	}

	if p.School != "" {
		reason := fmt.Sprintf("%s Alumni", p.School)
		for _, variant := range Variants(p.School) {
			for _, qual := range schoolQualifiers {
				queries = append(queries, model.SearchQuery{
					Text:   fmt.Sprintf(`%s "%s" "%s" %s`, profileSite, p.TargetCompany, variant, qual),
					Intent: model.IntentSchool,
					Reason: reason,
					Weight: WeightSchool,
				})
			}
		}
	}

	for _, group := range roleGroups {
		queries = append(queries, model.SearchQuery{
			Text:   fmt.Sprintf(`%s "%s" %s`, profileSite, p.TargetCompany, group),
			Intent: model.IntentBroad,
			Weight: WeightBroad,
		})
	}

	for _, group := range executiveGroups {
		queries = append(queries, model.SearchQuery{
			Text:   fmt.Sprintf(`%s "%s" %s`, profileSite, p.TargetCompany, group),
			Intent: model.IntentExecutive,
			Weight: WeightExecutive,
		})
	}

	if p.MaxQueries > 0 && len(queries) > p.MaxQueries {
		queries = queries[:p.MaxQueries]
	}
	return queries
}
