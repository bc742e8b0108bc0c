package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/connectsphere/connect-cli/internal/email"
	"github.com/connectsphere/connect-cli/pkg/verifier"
)

var (
	verifyName   string
	verifyDomain string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [email ...]",
	Short: "Verify email addresses for deliverability",
	Long:  "Verifies the given addresses, or generates candidate patterns from --name and --domain and verifies those.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("verify"); err != nil {
			return err
		}

		emails := args
		if len(emails) == 0 {
			if verifyName == "" || verifyDomain == "" {
				return eris.New("verify: pass email addresses, or --name and --domain to generate candidates")
			}
			parts := strings.Fields(verifyName)
			if len(parts) < 2 {
				return eris.New("verify: --name must include first and last name")
			}
			first, last := parts[0], parts[len(parts)-1]
			emails = email.ReorderForDomain(email.Patterns(first, last, verifyDomain), first, last, verifyDomain)
		}

		results := verifier.ValidateAll(ctx, newVerifier(), emails)

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Email", "Valid", "Disposable", "MX", "Suggestion"})

		var valid, invalid, unchecked int
		var best string
		for _, v := range results {
			if !v.Checked {
				unchecked++
				t.AppendRow(table.Row{v.Email, "?", "?", "?", ""})
				continue
			}
			if v.Deliverable() {
				valid++
				if best == "" {
					best = v.Email
				}
			} else {
				invalid++
			}
			t.AppendRow(table.Row{v.Email, yn(v.IsValid), yn(v.IsDisposable), yn(v.HasMXRecord), v.Suggestion})
		}

		fmt.Println(t.Render())
		fmt.Printf("\n%d valid, %d invalid", valid, invalid)
		if unchecked > 0 {
			fmt.Printf(", %d unchecked", unchecked)
		}
		fmt.Println()
		if best != "" {
			fmt.Printf("Best pick: %s\n", best)
		}
		return nil
	},
}

func yn(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	verifyCmd.Flags().StringVar(&verifyName, "name", "", "full name to generate candidate patterns for")
	verifyCmd.Flags().StringVar(&verifyDomain, "domain", "", "domain to generate candidate patterns at")
	rootCmd.AddCommand(verifyCmd)
}
