package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"routegen.dev/pkg/routegen/internal/domain"
	m "routegen.dev/pkg/routegen/internal/model"
	"routegen.dev/pkg/routegen/internal/watch"
)

const defaultWatchDebounce = watch.DefaultDebounce

var watchOutFlag string
var debounceFlag time.Duration

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [patterns...]",
		Short: "Regenerate routes on every source change",
		Long:  watchLongDescription,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bindScanFlags(cmd)
			bindFlagToConfig(cmd.Flags().Lookup(outFlagName), outputConfigKey)
			bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), watchDebounceConfigKey)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			genArgs := generateArgs(cmd, args)
			genArgs.Output = m.Path(viper.GetString(outputConfigKey))
			genArgs.Watch = true

			if genArgs.Output == "" {
				return fmt.Errorf("watch requires --%s", outFlagName)
			}

			if genArgs.ManifestDir == "" {
				return domain.ErrNoManifestDir
			}

			cmd.SilenceUsage = true

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd, genArgs, viper.GetDuration(watchDebounceConfigKey))
		},
	}

	configureScanFlags(cmd)

	cmd.Flags().StringVarP(&watchOutFlag, outFlagName, "o", viper.GetString(outputConfigKey), "file receiving the generated code")
	cmd.Flags().DurationVar(&debounceFlag, debounceFlagName, viper.GetDuration(watchDebounceConfigKey), "quiet period before regenerating")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch generates once, then again after every debounced batch of changes
// until ctx is cancelled. Failed regenerations are reported and the session
// continues.
func runWatch(ctx context.Context, cmd *cobra.Command, args domain.GenerateArgs, debounce time.Duration) error {
	if _, err := workflow.Generate(ctx, args); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}

	w, err := watch.New(watch.Config{
		Root:     string(args.ManifestDir),
		Ignore:   outputIgnore(args.ManifestDir, args.Output),
		Debounce: debounce,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "Changed: %v\n", changed)

			if _, err := workflow.Generate(ctx, args); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				return err
			}

			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", args.ManifestDir, err)
	}

	return w.Run(ctx)
}

// outputIgnore keeps the generated file from retriggering the watcher when it
// lives inside the watched tree.
func outputIgnore(root, output m.Path) []string {
	absRoot, err := filepath.Abs(string(root))
	if err != nil {
		return nil
	}

	absOutput, err := filepath.Abs(string(output))
	if err != nil {
		return nil
	}

	rel, err := filepath.Rel(absRoot, absOutput)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}

	if strings.ContainsAny(rel, "*?[]{}\\") {
		return nil
	}

	return []string{filepath.ToSlash(rel)}
}
