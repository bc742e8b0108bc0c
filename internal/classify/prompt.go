package classify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/connectsphere/connect-cli/internal/model"
)

const systemPrompt = `You are a networking assistant that analyzes professional contacts.
For each contact you receive, decide how they relate to the user and how
approachable they are. Respond with a JSON array only, no prose and no
markdown fences. Each element must have exactly these fields:

  "name":           the contact's name, copied verbatim from the input
  "connectionType": one of "School Alumni", "Work Alumni", "Industry Contact", "Direct Contact"
  "department":     the contact's likely department, e.g. "Engineering", "Sales", or "Unknown"
  "seniority":      one of "Junior", "Mid", "Senior", "Executive"
  "responseRate":   integer 1-10 estimating how likely they are to reply to cold outreach
  "outreachTip":    one concrete sentence of advice for contacting this person`

// buildUserPrompt renders the batch of candidates for one completion call.
func buildUserPrompt(params model.RunParams, candidates []model.ProfileCandidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user is %s, targeting a role at %s.\n", orUnknown(params.UserName), params.TargetCompany)
	if params.PreviousCompany != "" {
		fmt.Fprintf(&b, "The user previously worked at %s.\n", params.PreviousCompany)
	}
	if params.School != "" {
		fmt.Fprintf(&b, "The user attended %s.\n", params.School)
	}

	b.WriteString("\nContacts:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. Name: %s | Title: %s | Company: %s", i+1, c.Name, c.JobTitle, c.Company)
		if c.PriorityReason != "" {
			fmt.Fprintf(&b, " | Known connection: %s", c.PriorityReason)
		}
		if c.Snippet != "" {
			fmt.Fprintf(&b, " | Context: %s", truncate(c.Snippet, 200))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nReturn one JSON object per contact, in any order, matched by name.")
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "a job seeker"
	}
	return s
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
