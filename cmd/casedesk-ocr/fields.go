package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"casedesk/internal/domain"
	"casedesk/internal/extract"
)

var fieldsDocType string

var fieldsCmd = &cobra.Command{
	Use:   "fields [label...]",
	Short: "Resolve field labels or list the profile fields of a document type",
	Long: `fields prints the canonical name each label normalizes to.

With --doc-type it lists the fields that recognition of that document type
copies onto the client profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if fieldsDocType != "" {
			fields := extract.ProfileFields(domain.DocType(strings.ToLower(strings.TrimSpace(fieldsDocType))))
			if len(fields) == 0 {
				return fmt.Errorf("no profile fields for document type %q", fieldsDocType)
			}
			for _, f := range fields {
				fmt.Fprintln(w, f)
			}
		}
		for _, label := range args {
			if f, ok := extract.CanonicalField(strings.TrimSpace(label)); ok {
				fmt.Fprintf(w, "%s\t%s\n", label, f)
			} else {
				fmt.Fprintf(w, "%s\t-\n", label)
			}
		}
		if fieldsDocType == "" && len(args) == 0 {
			return fmt.Errorf("pass labels to resolve or --doc-type")
		}
		return nil
	},
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsDocType, "doc-type", "", "document type whose profile fields to list")
}
