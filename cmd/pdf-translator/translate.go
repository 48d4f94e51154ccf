package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdf-translator/internal/llm"
	"pdf-translator/internal/pipeline"
)

func translateCmd(configPath *string) *cobra.Command {
	var lang string
	var modeFlag string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "translate <input.pdf>",
		Short: "Translate a PDF and deliver the selected artifacts",
		Long: `Translate a PDF document into the target language.

Modes:
  structured  extract entities and the full translation as output.json
  rebuild     rebuild the PDF with translated text as translated.pdf
  both        produce both artifacts packaged as result.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := pipeline.ParseMode(modeFlag)
			if err != nil {
				return err
			}

			manager, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if err := manager.Validate(); err != nil {
				return err
			}

			targetLanguage, err := manager.ResolveLanguage(lang)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := llm.NewClient(ctx, manager.GetConfig())
			if err != nil {
				return err
			}

			p := pipeline.New(client, manager.GetConfig())
			result, err := p.Run(ctx, args[0], targetLanguage, mode, outputDir)
			if err != nil {
				return err
			}

			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "target language: ISO code, display name, or BCP-47 tag (required)")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", string(pipeline.ModeBoth), "output mode: structured|rebuild|both")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for the delivered file (default: current directory)")
	cmd.MarkFlagRequired("lang")

	return cmd
}
