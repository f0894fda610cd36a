package main

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
	"go.uber.org/zap"

	"github.com/lex00/wetwire-appsync-go/internal/validation"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on file changes.
func newWatchCmd(opts *globalOptions) *cobra.Command {
	var wopts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Auto-rebuild on project file changes",
		Long: `Watch monitors the project directory and rebuilds on every change.

The watch command:
- Monitors the project file, .graphql schemas and .vtl mapping templates
- Validates the synthesized template on each change
- Writes the template if validation passes (unless --validate-only)
- Debounces rapid changes to avoid excessive rebuilds

Examples:
    wetwire-appsync watch -o template.json
    wetwire-appsync watch --validate-only
    wetwire-appsync watch --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), opts, wopts)
		},
	}

	cmd.Flags().BoolVar(&wopts.validateOnly, "validate-only", false, "Only validate, skip writing the template")
	cmd.Flags().BoolVar(&wopts.skipLint, "skip-lint", false, "Skip cfn-lint rules during validation")
	cmd.Flags().DurationVar(&wopts.debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&wopts.outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&wopts.outputFile, "output", "o", "", "Output file for build (default: report only)")

	return cmd
}

type watchOptions struct {
	validateOnly bool
	skipLint     bool
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// watchedExtensions are the project inputs that trigger a rebuild.
var watchedExtensions = map[string]bool{
	".yaml":    true,
	".yml":     true,
	".graphql": true,
	".gql":     true,
	".vtl":     true,
}

func isWatchedFile(name string) bool {
	return watchedExtensions[strings.ToLower(filepath.Ext(name))]
}

// runWatch rebuilds the project until ctx is cancelled.
func runWatch(ctx context.Context, w io.Writer, opts *globalOptions, wopts watchOptions) error {
	logger := opts.logger()
	defer func() { _ = logger.Sync() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir, err := filepath.Abs(filepath.Dir(opts.configFile))
	if err != nil {
		return err
	}
	if err := addDirRecursive(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	fmt.Fprintf(w, "Watching: %s\n", dir)

	fmt.Fprintln(w, "Running initial build...")
	rebuild(w, opts, wopts, logger)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Fprintln(w, "\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchedFile(event.Name) {
				continue
			}
			// The output file lives next to the inputs when -o is relative.
			if wopts.outputFile != "" && sameFile(event.Name, wopts.outputFile) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("change detected", zap.String("file", event.Name), zap.Stringer("op", event.Op))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(wopts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Fprintf(w, "\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild(w, opts, wopts, logger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			fmt.Fprintln(w, "\nStopping watch...")
			return nil
		}
	}
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// addDirRecursive adds a directory and all subdirectories to the watcher.
func addDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
			return filepath.SkipDir
		}
		if filepath.Base(path) == "node_modules" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// rebuild synthesizes and validates the project, then writes the template.
// It reports failures instead of returning them so the watch loop survives
// a broken edit.
func rebuild(w io.Writer, opts *globalOptions, wopts watchOptions, logger *zap.Logger) bool {
	tmpl, err := synthProject(opts.configFile, logger)
	if err != nil {
		fmt.Fprintf(w, "Build error: %v\n", err)
		return false
	}

	res, err := validation.Validate(tmpl, validation.Options{SkipCfnLint: wopts.skipLint})
	if err != nil {
		fmt.Fprintf(w, "Validation error: %v\n", err)
		return false
	}
	for _, warn := range res.Warnings() {
		fmt.Fprintf(w, "  WARNING: %s\n", warn)
	}
	if !res.Passed() {
		for _, e := range res.Errors() {
			fmt.Fprintf(w, "  ERROR: %s\n", e)
		}
		fmt.Fprintln(w, "Validation failed, skipping build")
		return false
	}
	fmt.Fprintln(w, "Validation passed")

	if wopts.validateOnly {
		return true
	}

	data, err := encodeTemplate(tmpl, wopts.outputFormat)
	if err != nil {
		fmt.Fprintf(w, "Output error: %v\n", err)
		return false
	}
	if wopts.outputFile == "" {
		fmt.Fprintln(w, "Build successful")
		fmt.Fprintf(w, "Generated %d resources\n", len(tmpl.Resources))
		return true
	}
	if err := os.WriteFile(wopts.outputFile, data, 0644); err != nil {
		fmt.Fprintf(w, "Failed to write output: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "Build successful, wrote %s\n", wopts.outputFile)
	return true
}
