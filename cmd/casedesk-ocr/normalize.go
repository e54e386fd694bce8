package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"casedesk/internal/domain"
	"casedesk/internal/extract"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <json-file|->",
	Short: "Normalize a recognized JSON object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader
		if args[0] == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		raw, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		data := domain.NewExtractedData()
		if err := data.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("input must be a JSON object: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), extract.Normalize(data))
	},
}
