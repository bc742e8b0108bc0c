package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/connectsphere/connect-cli/internal/model"
	"github.com/connectsphere/connect-cli/internal/output"
	"github.com/connectsphere/connect-cli/internal/pipeline"
)

var (
	discoverName     string
	discoverTarget   string
	discoverPrevious string
	discoverSchool   string
	discoverJSON     bool
	discoverXLSX     string
	discoverVerbose  bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover potential connections at a target company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("discover"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		p := newPipeline(st)

		result, err := p.Run(ctx, model.RunParams{
			UserName:        discoverName,
			TargetCompany:   discoverTarget,
			PreviousCompany: discoverPrevious,
			School:          discoverSchool,
		})
		if err != nil {
			return eris.Wrap(err, "discovery run")
		}

		zap.L().Info("discovery complete",
			zap.String("run_id", result.RunID),
			zap.Int("queries", result.Stats.QueriesIssued),
			zap.Int("contacts", result.Stats.ContactsReturned),
		)

		if discoverJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if discoverVerbose {
			for _, e := range result.Log {
				fmt.Printf("[%s] %s %s\n", e.Time.Format("15:04:05"), logMark(e.Level), e.Message)
			}
			fmt.Println()
		}

		fmt.Println(output.RenderConnections(result.Connections, result.Stats))
		if tips := output.RenderOutreach(result.Connections); tips != "" {
			fmt.Println()
			fmt.Print(tips)
		}

		if discoverXLSX != "" {
			if err := output.WriteXLSX(discoverXLSX, result.Connections); err != nil {
				return err
			}
			fmt.Printf("\nExported %d connections to %s\n", len(result.Connections), discoverXLSX)
		}

		return nil
	},
}

func logMark(level pipeline.LogLevel) string {
	switch level {
	case pipeline.LogSuccess:
		return "+"
	case pipeline.LogError:
		return "!"
	default:
		return "·"
	}
}

func init() {
	discoverCmd.Flags().StringVar(&discoverName, "name", "", "your full name (required)")
	discoverCmd.Flags().StringVar(&discoverTarget, "target", "", "target company (required)")
	discoverCmd.Flags().StringVar(&discoverPrevious, "previous", "", "a previous employer (required)")
	discoverCmd.Flags().StringVar(&discoverSchool, "school", "", "your school (required)")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "print the full result as JSON")
	discoverCmd.Flags().StringVar(&discoverXLSX, "xlsx", "", "export connections to an XLSX file")
	discoverCmd.Flags().BoolVar(&discoverVerbose, "verbose", false, "print the run log before the results")
	_ = discoverCmd.MarkFlagRequired("name")
	_ = discoverCmd.MarkFlagRequired("target")
	_ = discoverCmd.MarkFlagRequired("previous")
	_ = discoverCmd.MarkFlagRequired("school")
	rootCmd.AddCommand(discoverCmd)
}
