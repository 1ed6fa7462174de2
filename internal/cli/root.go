package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yildizm/SigSum/internal/config"
	"github.com/yildizm/SigSum/internal/emoji"
	"github.com/yildizm/SigSum/internal/logger"
	"github.com/yildizm/SigSum/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	// loaded by the root command before any subcommand runs
	globalConfig *config.Config
)

// commands annotated with this key load and report configuration themselves
const manualConfigAnnotation = "sigsum/manual-config"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sigsum",
		Short: "Signal Summary Tool",
		Long: `SigSum summarizes integer signals: it reports the average, minimum,
maximum and overall trend of a comma-separated list of integers.

Signals are analyzed by the SigSum HTTP API, which this binary can also serve.
Run "sigsum analyze" in a terminal for the interactive form.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadGlobalConfig(cmd); err != nil {
				return err
			}

			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown, csv)")

	// Add subcommands
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// loadGlobalConfig loads configuration and lets it fill in every global flag
// the user did not set
func loadGlobalConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		if cmd.Annotations[manualConfigAnnotation] != "" {
			globalConfig = config.DefaultConfig()
			return nil
		}
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	globalConfig = cfg

	flags := cmd.Flags()
	if !flags.Changed("verbose") {
		verbose = cfg.Output.Verbose
	}
	if !flags.Changed("output") {
		outputFmt = cfg.Output.DefaultFormat
	}
	if !flags.Changed("no-color") && cfg.Output.ColorMode == "never" {
		noColor = true
	}
	if !ui.SetThemeByName(cfg.UI.Theme) {
		return fmt.Errorf("unknown UI theme: %s", cfg.UI.Theme)
	}
	return nil
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SigSum %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}

func isEmojiDisabled() bool {
	return noEmoji
}

// useColor resolves the color mode against --no-color, NO_COLOR and the terminal
func useColor() bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	if getConfig().Output.ColorMode == "always" {
		return true
	}
	return stdoutIsTerminal()
}

func getConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
