// Package output renders discovery results for the terminal and for file
// export.
package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/connectsphere/connect-cli/internal/model"
)

// RenderConnections renders the final connection list as an ASCII table,
// ordered as given (callers pass ranked output).
func RenderConnections(conns []model.FinalConnection, stats model.RunStats) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Name", "Title", "Connection", "Seniority", "Email", "Conf"})

	for i, c := range conns {
		t.AppendRow(table.Row{
			i + 1,
			c.Name,
			c.JobTitle,
			connectionLabel(c),
			string(c.Seniority),
			emailLabel(c),
			confidenceLabel(c),
		})
	}

	t.AppendFooter(table.Row{
		"", "",
		fmt.Sprintf("%d contacts from %d results", stats.ContactsReturned, stats.ResultsFetched),
		"", "", "", "",
	})

	return t.Render()
}

// RenderOutreach renders the per-contact outreach guidance below the main
// table: the tip and the estimated response rate.
func RenderOutreach(conns []model.FinalConnection) string {
	var b strings.Builder
	for i, c := range conns {
		if c.OutreachTip == "" {
			continue
		}
		fmt.Fprintf(&b, "%d. %s (est. response %d/10): %s\n", i+1, c.Name, c.ResponseRate, c.OutreachTip)
	}
	return b.String()
}

func connectionLabel(c model.FinalConnection) string {
	label := string(c.ConnectionType)
	if c.IsPriority && c.PriorityReason != "" {
		label += " (" + c.PriorityReason + ")"
	}
	return label
}

func emailLabel(c model.FinalConnection) string {
	if c.PrimaryEmail == "" {
		return "-"
	}
	return c.PrimaryEmail
}

func confidenceLabel(c model.FinalConnection) string {
	if c.PrimaryEmail == "" {
		return "-"
	}
	return fmt.Sprintf("%d%%", c.EmailConfidence)
}
