package main

import (
	"encoding/json"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"casedesk/internal/domain"
)

var (
	envFile string
	compact bool
)

var rootCmd = &cobra.Command{
	Use:   "casedesk-ocr",
	Short: "Run document recognition and field normalization locally",
	Long: `casedesk-ocr runs the recognition pipeline outside the server.

  recognize  sniff, recognize, parse and normalize a local file
  normalize  normalize an already recognized JSON object
  fields     resolve field labels and list profile fields per document type`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before reading config")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "print JSON on one line")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load(envFile)
	}

	rootCmd.AddCommand(recognizeCmd, normalizeCmd, fieldsCmd)
}

func printJSON(w io.Writer, v *domain.ExtractedData) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
