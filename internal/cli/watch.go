package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/SigSum/internal/analyzer"
	"github.com/yildizm/SigSum/internal/client"
	"github.com/yildizm/SigSum/internal/emoji"
	"github.com/yildizm/SigSum/internal/lifecycle"
	sigsignal "github.com/yildizm/SigSum/internal/signal"
)

var watchLocal bool

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-analyze a signal file whenever it changes",
		Long: `Analyze the signal stored in a file now and again after every write.

One line is printed per analysis. The file's parent directory is watched so
editors that save by replacing the file are followed too. Press Ctrl+C to stop.

Examples:
  sigsum watch signal.txt
  sigsum watch --local signal.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&analyzeEndpoint, "endpoint", "", "API base URL (overrides client.base_url)")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", client.DefaultTimeout, "request timeout")
	cmd.Flags().BoolVar(&watchLocal, "local", false, "analyze in-process instead of calling the API")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := filepath.Clean(args[0])
	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	controller, err := newWatchController(cmd)
	if err != nil {
		return err
	}

	watcher, err := createWatcher(filepath.Dir(filename))
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching file: %s\n", filename)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	w := &signalWatcher{
		filename:   filename,
		controller: controller,
		out:        cmd.OutOrStdout(),
		now:        time.Now,
	}
	w.analyze(ctx)

	return w.loop(ctx, watcher)
}

// newWatchController analyzes either through the API or in-process
func newWatchController(cmd *cobra.Command) (*lifecycle.Controller, error) {
	if watchLocal {
		return lifecycle.New(analyzer.NewEngine(), lifecycle.WithLogger(newLogger("lifecycle"))), nil
	}
	controller, _, err := newController(cmd)
	return controller, err
}

// signalWatcher re-analyzes one file and prints a line per result
type signalWatcher struct {
	filename   string
	controller *lifecycle.Controller
	out        io.Writer
	now        func() time.Time

	// last analyzed content, so repeated write events for one save print once
	last    string
	hasLast bool
}

func (w *signalWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.relevant(event) {
				w.analyze(ctx)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// relevant reports whether event may have changed the watched file's content
func (w *signalWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.filename {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// analyze reads the file and prints one result line, skipping unchanged content
func (w *signalWatcher) analyze(ctx context.Context) {
	input, err := readWatchFile(w.filename)
	if err != nil {
		w.printLine(emoji.GetEmoji("error"), err.Error())
		return
	}
	if w.hasLast && input == w.last {
		return
	}
	w.last, w.hasLast = input, true

	data, err := sigsignal.Parse(input)
	if err != nil {
		w.printLine(emoji.GetEmoji("warning"), err.Error())
		return
	}

	switch state := w.controller.Invoke(ctx, data).(type) {
	case lifecycle.Succeeded:
		w.printLine(emoji.ForTrend(state.Result.Trend), summaryLine(len(data), state.Result))
	case lifecycle.Failed:
		w.printLine(emoji.GetEmoji("error"), state.Message)
	}
}

func (w *signalWatcher) printLine(icon, text string) {
	fmt.Fprintf(w.out, "[%s] %s %s\n", w.now().Format("15:04:05"), icon, text)
}

// summaryLine renders an analysis on one line
func summaryLine(points int, a sigsignal.Analysis) string {
	return fmt.Sprintf("points=%d avg=%.2f min=%d max=%d trend=%s", points, a.Average, a.Minimum, a.Maximum, a.Trend)
}

func readWatchFile(filename string) (string, error) {
	// #nosec G304 - path is validated by caller
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer cleanupFile(file)

	return readSignalText(file)
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// cleanupFile safely closes file with error logging
func cleanupFile(file *os.File) {
	if err := file.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close file: %v\n", err)
	}
}

// createWatcher creates a watcher on dir
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
