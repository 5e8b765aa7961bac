package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"captioncraft/internal/app"
	"captioncraft/internal/app/model"
)

const doneChoice = -1

var (
	captionText        string
	captionPlatform    string
	captionTone        string
	captionLanguage    string
	captionJSON        bool
	captionInteractive bool
)

var captionCmd = &cobra.Command{
	Use:   "caption [source]",
	Short: "Generate caption variants for content",
	Long: `Summarize the content and generate three caption variants for the chosen
platform, tone and language. With --interactive, missing keys and options are
prompted for and individual variants can be regenerated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCaption,
}

func init() {
	captionCmd.Flags().StringVarP(&captionText, "text", "t", "", "Text to caption")
	captionCmd.Flags().StringVarP(&captionPlatform, "platform", "p", string(model.PlatformInstagram), "instagram, youtube or linkedin")
	captionCmd.Flags().StringVar(&captionTone, "tone", string(model.ToneProfessional), "professional, fun, genz or motivational")
	captionCmd.Flags().StringVarP(&captionLanguage, "language", "l", string(model.LanguageEnglish), "english or hinglish")
	captionCmd.Flags().BoolVar(&captionJSON, "json", false, "Print the result as JSON")
	captionCmd.Flags().BoolVarP(&captionInteractive, "interactive", "i", false, "Prompt for options and regenerate variants")
	rootCmd.AddCommand(captionCmd)
}

type captionOutput struct {
	Summary  model.ContentSummary  `json:"summary"`
	Captions []model.CaptionResult `json:"captions"`
}

func runCaption(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts, err := app.ParseRunOptions(captionPlatform, captionTone, captionLanguage)
	if err != nil {
		return err
	}

	cfg, pipeline, err := loadPipeline(ctx)
	if err != nil {
		return err
	}

	input, err := resolveInput(ctx, pipeline, args, captionText)
	if err != nil {
		return err
	}

	if captionInteractive {
		if err := selectOptions(&opts); err != nil {
			return err
		}
	}

	creds, err := credentials(cfg, captionInteractive, true, true)
	if err != nil {
		return err
	}

	var result *app.RunResult
	run := func() error {
		result, err = pipeline.Run(ctx, input, opts, creds)
		return err
	}
	if captionInteractive {
		err = runWithSpinner("Writing captions", run)
	} else {
		err = run()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if captionJSON && !captionInteractive {
		return writeJSON(out, captionOutput{Summary: result.Summary, Captions: result.Captions})
	}

	renderSummary(out, result.Summary)
	renderCaptions(out, result.Captions, opts.Platform)

	if !captionInteractive {
		return nil
	}
	return regenerateLoop(ctx, out, pipeline, app.NewSession(result), creds)
}

// regenerateLoop lets the user replace single variants until they are done.
func regenerateLoop(ctx context.Context, out io.Writer, pipeline *app.Pipeline, session *app.Session, creds app.Credentials) error {
	for {
		choice := doneChoice
		options := []huh.Option[int]{huh.NewOption("Done", doneChoice)}
		for i := range session.Captions {
			options = append(options, huh.NewOption(fmt.Sprintf("Regenerate caption %d", i+1), i))
		}

		if err := huh.NewSelect[int]().
			Title("Next").
			Options(options...).
			Value(&choice).
			Run(); err != nil {
			return err
		}
		if choice == doneChoice {
			return nil
		}

		var fresh model.CaptionResult
		err := runWithSpinner(fmt.Sprintf("Regenerating caption %d", choice+1), func() error {
			var regenErr error
			fresh, regenErr = pipeline.RegenerateAt(ctx, session, choice, creds)
			return regenErr
		})
		if err != nil {
			fmt.Fprintln(out, warnStyle.Render(err.Error()))
			continue
		}
		renderCaption(out, choice, fresh, session.Request.Platform)
	}
}
