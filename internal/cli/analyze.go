package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/SigSum/internal/client"
	"github.com/yildizm/SigSum/internal/formatter"
	"github.com/yildizm/SigSum/internal/lifecycle"
	"github.com/yildizm/SigSum/internal/signal"
	"github.com/yildizm/SigSum/internal/ui"
)

// maxInputBytes caps signal input read from files and stdin
const maxInputBytes = 4 << 20

var (
	analyzeFile       string
	analyzeEndpoint   string
	analyzeTimeout    time.Duration
	analyzeNoTUI      bool
	analyzeOutputFile string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [signal]",
		Short: "Analyze a signal",
		Long: `Analyze a comma-separated list of integers.

The signal is taken from the argument, from --file, or from stdin. With no
signal and a terminal on both ends, an interactive form is opened instead.

Examples:
  sigsum analyze "1, 2, 3, 4, 5"
  sigsum analyze --file signal.txt -o json
  echo "5, 3, 1" | sigsum analyze
  sigsum analyze --endpoint http://api.internal:8000 "10, -2, 7"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read the signal from a file")
	cmd.Flags().StringVar(&analyzeEndpoint, "endpoint", "", "API base URL (overrides client.base_url)")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", client.DefaultTimeout, "request timeout")
	cmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	controller, endpoint, err := newController(cmd)
	if err != nil {
		return err
	}

	if shouldUseTUIMode(args) && stdinIsTerminal() && stdoutIsTerminal() {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Launching interactive terminal UI...\n")
		}
		return ui.Run(cmd.Context(), controller, endpoint)
	}

	input, source, err := readSignalInput(args)
	if err != nil {
		return err
	}

	data, err := signal.Parse(input)
	if err != nil {
		return err
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Analyzing %d points from %s via %s\n", len(data), source, endpoint)
	}

	report, err := performAnalysis(cmd.Context(), controller, data, source)
	if err != nil {
		return err
	}

	return formatAndOutputResults(report)
}

// newController builds the lifecycle controller over the HTTP client, with
// --endpoint and --timeout taking precedence over configuration
func newController(cmd *cobra.Command) (*lifecycle.Controller, string, error) {
	settings := getConfig().ClientSettings()
	if cmd.Flags().Changed("endpoint") {
		settings.BaseURL = analyzeEndpoint
	}
	if cmd.Flags().Changed("timeout") {
		settings.Timeout = analyzeTimeout
	}

	c, err := client.New(settings, client.WithLogger(newLogger("client")))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create API client: %w", err)
	}

	controller := lifecycle.New(c, lifecycle.WithLogger(newLogger("lifecycle")))
	return controller, c.Endpoint(), nil
}

// shouldUseTUIMode reports whether flags and arguments ask for the form;
// the caller still checks for a terminal
func shouldUseTUIMode(args []string) bool {
	return len(args) == 0 && analyzeFile == "" && !analyzeNoTUI &&
		getOutputFormat() == "text" && !isVerbose()
}

// performAnalysis runs one request through the controller and turns its
// settled state into a report or an error
func performAnalysis(ctx context.Context, controller *lifecycle.Controller, data []int, source string) (*formatter.Report, error) {
	switch state := controller.Invoke(ctx, data).(type) {
	case lifecycle.Succeeded:
		return &formatter.Report{
			Signal:      data,
			Analysis:    state.Result,
			Source:      source,
			GeneratedAt: time.Now(),
		}, nil
	case lifecycle.Failed:
		return nil, fmt.Errorf("analysis failed: %s", state.Message)
	default:
		return nil, fmt.Errorf("analysis did not complete (state %s)", state.Status())
	}
}

// readSignalInput returns the raw signal text and a label for where it came from
func readSignalInput(args []string) (input, source string, err error) {
	switch {
	case len(args) == 1:
		return args[0], "argument", nil

	case analyzeFile != "":
		if err := validateFilePath(analyzeFile); err != nil {
			return "", "", fmt.Errorf("invalid file path: %w", err)
		}
		cleanPath := filepath.Clean(analyzeFile)

		// #nosec G304 - path is validated above
		file, err := os.Open(cleanPath)
		if err != nil {
			return "", "", fmt.Errorf("failed to open file %s: %w", analyzeFile, err)
		}
		defer func() {
			if err := file.Close(); err != nil && isVerbose() {
				fmt.Fprintf(os.Stderr, "Warning: failed to close file: %v\n", err)
			}
		}()

		text, err := readSignalText(file)
		if err != nil {
			return "", "", err
		}
		return text, cleanPath, nil

	default:
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Reading from stdin...\n")
		}
		text, err := readSignalText(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return text, "stdin", nil
	}
}

// readSignalText joins the non-empty lines of r with commas, so a signal
// may be written one value per line. A line that already ends in a comma is
// joined as is, and a trailing comma on the last line is kept for Parse to
// reject.
func readSignalText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(raw) > maxInputBytes {
		return "", fmt.Errorf("input exceeds %d bytes", maxInputBytes)
	}

	var b strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), ",") {
			b.WriteByte(',')
		}
		b.WriteString(line)
	}
	return b.String(), nil
}

// formatAndOutputResults formats the report and handles output
func formatAndOutputResults(report *formatter.Report) error {
	formatterInstance, err := formatter.New(getOutputFormat(), analyzeOutputFile == "" && useColor(), !isEmojiDisabled())
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	output, err := formatterInstance.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return handleOutputDestination(output)
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(output []byte) error {
	if analyzeOutputFile == "" {
		_, err := os.Stdout.Write(output)
		return err
	}

	if strings.TrimSpace(analyzeOutputFile) == "" {
		return fmt.Errorf("invalid output file path: empty file path")
	}
	if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", analyzeOutputFile)
	}
	return nil
}

func validateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
