package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quakeboard/api/internal/output"
	"github.com/quakeboard/api/internal/platform/config"
	"github.com/quakeboard/api/internal/platform/logger"
)

var (
	outputFmt string
	feedURL   string
	verbose   bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "quakectl",
	Short: "quakectl inspects the earthquake feed from the terminal",
	Long: `quakectl fetches the configured earthquake feed once and prints the
filtered list or its summary statistics. It also reads and changes the
dashboard theme preference.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		_ = godotenv.Load(".env.local", ".env")
	})

	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVar(&feedURL, "url", "", "feed URL (overrides USGS_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

// loadConfig reads the environment, applying the --url override first.
func loadConfig() (config.Config, error) {
	if feedURL != "" {
		if err := os.Setenv("USGS_API_URL", feedURL); err != nil {
			return config.Config{}, err
		}
	}
	return config.Load()
}

func cliLogger(cfg config.Config) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return logger.NewWithWriter(os.Stderr, "quakectl", cfg.Level())
}

func renderer(cmd *cobra.Command) (output.Renderer, error) {
	return output.New(outputFmt, cmd.OutOrStdout())
}
