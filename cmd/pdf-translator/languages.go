package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func languagesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			for _, code := range manager.Languages() {
				name, _ := manager.LanguageName(code)
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", code, name)
			}
			return nil
		},
	}
}
