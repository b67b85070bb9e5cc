package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"reviewlens/internal/analysis"
	"reviewlens/internal/format"
	"reviewlens/internal/model"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		inputPath    string
		outputFormat string
		marker       string
		streaming    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [PR_NUMBER]",
		Short: "Analyze a PR's review-bot comments",
		Long: `Analyze the review comments the bot posted on a pull request: classify
each comment, parse findings and the PR summary, reconstruct conversation
threads, and report the unresolved ones.

Comments are fetched live when a PR number is given, or read from a record
set previously produced by 'reviewlens fetch' via --input.`,
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

			opts := analyzerOptions(cfg, marker)
			if streaming {
				opts.Streaming = true
			}

			analyzed, err := analysis.NewAnalyzer(opts).Analyze(input)
			if err != nil {
				return err
			}

			name := outputFormat
			if name == "" {
				name = cfg.OutputSettings.Format
			}
			renderer, err := format.New(name)
			if err != nil {
				return err
			}
			if text, ok := renderer.(*format.TextRenderer); ok {
				text.Color = cfg.OutputSettings.Color
			}

			return renderer.Render(cmd.OutOrStdout(), analyzed)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "read a fetched record set from a JSON file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: markdown, json, yaml, text, prompt")
	cmd.Flags().StringVar(&marker, "marker", "", "resolution marker override for this run")
	cmd.Flags().BoolVar(&streaming, "streaming", false, "force batched parallel parsing")

	return cmd
}
