// Package cmd implements the command-line interface for goslate.
// It provides the root command and subcommands for running the content
// pipeline on demand or on a schedule.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/goslate/cmd/platforms"
	"github.com/jonesrussell/goslate/cmd/run"
	cmdscheduler "github.com/jonesrussell/goslate/cmd/scheduler"
	"github.com/jonesrussell/goslate/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug logging for all commands.
	Debug bool

	// rootCmd represents the root command for the goslate CLI.
	rootCmd = &cobra.Command{
		Use:   "goslate",
		Short: "A scheduled social-media content pipeline",
		Long: `goslate listens to what's trending, turns it into keyword insights
and generates a reviewed content calendar for the day's posting slots.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	// Parse flags early to pick up --debug before the logger exists.
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("goslate version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(run.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
	rootCmd.AddCommand(platforms.Command())
}

// initConfig reads the config file and environment variables into viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Environment variables take precedence over file values and defaults.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	// Config file is optional; defaults plus environment are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment)\n", err)
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	if Debug || viper.GetBool("logging.development") {
		viper.Set("logging.level", "debug")
	}
	return nil
}

// bindEnvVars maps secrets and common overrides to config keys. Secrets are
// only ever supplied through the environment.
func bindEnvVars() error {
	bindings := map[string][]string{
		"generation.api_key":      {"GEMINI_API_KEY"},
		"generation.model":        {"GENERATION_MODEL"},
		"notify.telegram_token":   {"TELEGRAM_BOT_TOKEN"},
		"notify.telegram_chat_id": {"TELEGRAM_CHAT_ID"},
		"logging.level":           {"LOG_LEVEL"},
	}
	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}
