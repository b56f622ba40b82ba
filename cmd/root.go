// Package cmd implements the supporter-engagement CLI.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "supporter-engagement",
	Short: "Personalized supporter engagement service for cancer research fundraising",
	Long: `Supporter Engagement serves personalized experiences for charity
supporters: a conversational agent, donation impact dashboards, a
cancer information knowledge base, and a versioned per-supporter
engagement context store.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "supporter-engagement.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the process logger. MCP mode and the HTTP service
// both log to stderr; stdout stays free for protocol traffic.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
