// Package commands provides the CLI commands for hyprwatch.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hyprwatch/hyprwatch/internal/config"
	"github.com/hyprwatch/hyprwatch/internal/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags.
var (
	logLevel   string
	socketPath string
)

// cfg is loaded once in the root PersistentPreRun and read by all
// subcommands.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hyprwatch",
	Short: "hyprwatch - compositor event socket client",
	Long: `hyprwatch connects to the Hyprland compositor's event socket and
turns its notification stream into typed events.

Run 'hyprwatch watch' to print events as they happen, or
'hyprwatch serve' to re-broadcast them over HTTP as Server-Sent Events.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env in the working directory may carry the compositor
		// instance signature during development; missing is fine.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("socket") {
			cfg.Socket = socketPath
		}

		logging.Setup(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Pretty: true,
		})
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Event socket path (overrides auto-detection)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("hyprwatch %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(socketCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
