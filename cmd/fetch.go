package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "fetch PR_NUMBER",
		Short: "Fetch a PR's review comments as a JSON record set",
		Long: `Fetch the complete comment record set for a pull request: inline review
comments, top-level review bodies, and conversation comments. The output can
be fed back to 'reviewlens analyze --input'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prNumber, err := parsePRNumber(args[0])
			if err != nil {
				return err
			}

			input, err := fetchInput(cmd.Context(), prNumber)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(input)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the record set to a file instead of stdout")

	return cmd
}
