package main

import (
	"github.com/spf13/cobra"

	"github.com/slimenefellah/myguide/internal/app"
	"github.com/slimenefellah/myguide/internal/common"
)

var configPath string

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:     "myguide",
	Short:   "Command-line client for the MyGuide travel service",
	Version: common.GetFullVersion(),
	Long: `myguide is a command-line companion client for the MyGuide travel
planning service: authenticated place browsing, trip plans, and the
assistant chat.

Environment Variables:
  MYGUIDE_API_BASE_URL   API base URL
  MYGUIDE_LOG_LEVEL      trace|debug|info|warn|error`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to TOML config file (default: $MYGUIDE_CONFIG or myguide.toml)")
}

// newApp builds the client stack for a command invocation.
func newApp() (*app.App, error) {
	path := configPath
	if path == "" {
		path = envOrDefault("MYGUIDE_CONFIG", "myguide.toml")
	}
	return app.NewApp(path)
}
