package cmd

import (
	"github.com/spf13/cobra"

	"captioncraft/internal/app/model"
)

var (
	summarizeText        string
	summarizeJSON        bool
	summarizeInteractive bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [source]",
	Short: "Summarize text, a PDF or an image",
	Long: `Summarize content into a main idea, bullet points and keywords.
The source may be a file path, an http(s) URL, a gs://bucket/object reference or - for stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeText, "text", "t", "", "Text to summarize")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "Print the summary as JSON")
	summarizeCmd.Flags().BoolVarP(&summarizeInteractive, "interactive", "i", false, "Prompt for a missing API key")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, pipeline, err := loadPipeline(ctx)
	if err != nil {
		return err
	}

	input, err := resolveInput(ctx, pipeline, args, summarizeText)
	if err != nil {
		return err
	}

	creds, err := credentials(cfg, summarizeInteractive, true, false)
	if err != nil {
		return err
	}

	var summary model.ContentSummary
	normalize := func() error {
		summary, err = pipeline.Normalize(ctx, input, creds)
		return err
	}
	if summarizeInteractive {
		err = runWithSpinner("Summarizing content", normalize)
	} else {
		err = normalize()
	}
	if err != nil {
		return err
	}

	if summarizeJSON {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	renderSummary(cmd.OutOrStdout(), summary)
	return nil
}
