package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdf-translator/internal/config"
	"pdf-translator/internal/logger"
)

func main() {
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:           "pdf-translator",
		Short:         "Translate PDF documents with a remote language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logConfig := logger.DefaultConfig()
			if verbose {
				logConfig.Level = logger.LevelDebug
				logConfig.EnableConsole = true
			}
			return logger.Init(logConfig)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default: ~/.config/pdf-translator/"+config.DefaultConfigFileName+")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to the console")

	root.AddCommand(translateCmd(&configPath))
	root.AddCommand(infoCmd())
	root.AddCommand(languagesCmd(&configPath))

	err := root.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig builds a Manager from the --config flag and loads it.
func loadConfig(configPath string) (*config.Manager, error) {
	manager, err := config.NewManager(configPath)
	if err != nil {
		return nil, err
	}
	if err := manager.Load(); err != nil {
		return nil, err
	}
	return manager, nil
}
