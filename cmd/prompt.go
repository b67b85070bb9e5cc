package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"reviewlens/internal/analysis"
	"reviewlens/internal/format"
	"reviewlens/internal/model"
)

func newPromptCmd() *cobra.Command {
	var (
		inputPath string
		marker    string
	)

	cmd := &cobra.Command{
		Use:   "prompt [PR_NUMBER]",
		Short: "Emit an AI-agent prompt for the unresolved review findings",
		Long: `Analyze the PR's review comments and write a structured prompt that a
downstream AI agent can consume directly: every unresolved finding with its
file location, priority, and any bot-provided suggestion block.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var input *model.CommentInput
			switch {
			case inputPath != "":
				input, err = readInputFile(inputPath)
			case len(args) == 1:
				var prNumber int
				prNumber, err = parsePRNumber(args[0])
				if err != nil {
					return err
				}
				input, err = fetchInput(cmd.Context(), prNumber)
			default:
				return fmt.Errorf("either a PR number or --input is required")
			}
			if err != nil {
				return err
			}

			analyzed, err := analysis.NewAnalyzer(analyzerOptions(cfg, marker)).Analyze(input)
			if err != nil {
				return err
			}

			return (&format.PromptRenderer{}).Render(cmd.OutOrStdout(), analyzed)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "read a fetched record set from a JSON file")
	cmd.Flags().StringVar(&marker, "marker", "", "resolution marker override for this run")

	return cmd
}
