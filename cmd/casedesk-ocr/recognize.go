package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"casedesk/internal/config"
	"casedesk/internal/recognition"
	_ "casedesk/internal/recognition/claude"
	_ "casedesk/internal/recognition/gemini"
	_ "casedesk/internal/recognition/openai"
)

var (
	mimeOverride string
	language     string
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <file>",
	Short: "Recognize a local document and print canonical fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if language != "" {
			cfg.Recognition.Language = language
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		mimeType := mimeOverride
		if mimeType == "" {
			mimeType = recognition.DetectMime(args[0])
		}

		client, err := recognition.NewClientFromConfig(&cfg.Recognition, nil)
		if err != nil {
			return err
		}
		fields, outcome := client.Extract(cmd.Context(), data, mimeType)
		if !outcome.Succeeded() {
			for _, e := range outcome.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "attempt failed: %v\n", e)
			}
			return fmt.Errorf("recognition failed for %s", args[0])
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "model: %s (fallback: %v)\n", outcome.ModelUsed, outcome.Fallback)
		return printJSON(cmd.OutOrStdout(), fields)
	},
}

func init() {
	recognizeCmd.Flags().StringVar(&mimeOverride, "mime", "", "mime type override (default: from extension)")
	recognizeCmd.Flags().StringVar(&language, "lang", "", "language hint override")
}
