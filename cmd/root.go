package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/g1c/g1c/internal/app"
	"github.com/g1c/g1c/internal/config"
	"github.com/g1c/g1c/internal/logging"
)

var (
	flagProject   string
	flagRegion    string
	flagRefresh   time.Duration
	flagConfig    string
	flagLogFile   string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "g1c",
	Short: "Terminal dashboard for Google Compute Engine instances",
	Long: `g1c is an interactive terminal dashboard for observing and controlling
Compute Engine instances. It polls the gcloud CLI in the background and lets
you start, stop, restart and delete instances without leaving the terminal.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		settings = settings.
			WithProject(flagProject).
			WithRegion(flagRegion).
			WithRefreshInterval(flagRefresh)

		log, err := logging.Setup(flagLogFile, flagLogLevel, flagLogFormat)
		if err != nil {
			return err
		}

		application, err := app.NewApplication(settings, log)
		if err != nil {
			return err
		}
		defer application.Stop()

		return application.Start()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagProject, "project", "p", "", "Google Cloud project id")
	rootCmd.Flags().StringVarP(&flagRegion, "region", "g", "", "restrict listing to zones in this region")
	rootCmd.Flags().DurationVar(&flagRefresh, "refresh", 0, "base poll interval (e.g. 5s)")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "write logs to this file (disabled when empty)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.Flags().StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
}
