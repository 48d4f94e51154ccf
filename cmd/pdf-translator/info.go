package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdf-translator/internal/pdf"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.pdf>",
		Short: "Show page count, size, and whether the PDF has extractable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := pdf.NewExtractor().Info(args[0])
			if err != nil {
				return err
			}

			out, _ := json.MarshalIndent(info, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
