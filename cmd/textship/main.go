package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/stagecast/textship"
	"github.com/stagecast/textship/internal/cliconfig"
	"github.com/stagecast/textship/internal/settings"
	"github.com/stagecast/textship/pkg/log"
)

const helpDescription = `
Push text messages onto a video compositing engine over OSC/UDP.

Highlights:
  - Rotates across a configurable range of clip slots, one per message.
  - Deduplicates and throttles identical messages; optional pooled batching.
  - Auto-clears the display a configurable delay after each message.
  - Configure via file (~/.textship/config.toml), environment, or flags.
`

var exampleUsage = strings.TrimSpace(`
  textship --host 192.168.1.40 "DOORS OPEN 19:00"
  textship --layer 3 --base-clip-slot 4 --rotation-count 3 --stdin
  textship --clear
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newLogger(level string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	zl := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	return log.NewZerologAdapterWithLogger(zl), nil
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var (
		cfgPath     string
		fromStdin   bool
		clearOnly   bool
		selfTest    bool
		forceResend bool
	)

	root := &cobra.Command{
		Use:     "textship [message]",
		Short:   "Push text messages onto a video compositing engine over OSC/UDP",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default ~/.textship/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// Flags are already parsed into cfg; keep this snapshot as the
			// base the watcher re-layers file and env revisions onto.
			base := cfg

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := textship.Dial(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			if cfg.Watch && cfgFile != "" {
				watcher := settings.New(cfgFile, base, changed, logger)
				watcher.Subscribe(func(next textship.Settings) {
					if err := client.ApplySettings(ctx, next); err != nil {
						logger.Error("apply settings", log.Err(err))
					}
				})
				if err := watcher.Start(ctx); err != nil {
					return err
				}
				defer watcher.Stop()
			}

			switch {
			case selfTest:
				return client.SelfTest(ctx)

			case clearOnly:
				return client.Clear(ctx)

			case fromStdin:
				return dispatchLines(ctx, client, logger)

			case len(args) > 0:
				text := strings.Join(args, " ")
				res, err := dispatchOne(ctx, client, text, forceResend)
				if err != nil {
					return err
				}
				logger.Info("dispatched",
					log.String("id", res.ID.String()),
					log.Int("slot", res.Slot),
				)
				// Stay up until the auto-clear has fired.
				if cfg.AutoClearEnabled {
					select {
					case <-ctx.Done():
					case <-time.After(cfg.AutoClearDelay + time.Second):
					}
				}
				return nil

			default:
				return fmt.Errorf("nothing to do: pass a message, --stdin, --clear, or --self-test")
			}
		},
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to TOML config file (default ~/.textship/config.toml)")
	root.Flags().StringVar(&cfg.Host, "host", cfg.Host, "Receiver hostname or IP")
	root.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Receiver OSC input port")
	root.Flags().IntVar(&cfg.Layer, "layer", cfg.Layer, "Composition layer")
	root.Flags().IntVar(&cfg.BaseClipSlot, "base-clip-slot", cfg.BaseClipSlot, "First clip slot of the rotation range")
	root.Flags().IntVar(&cfg.RotationCount, "rotation-count", cfg.RotationCount, "Number of clip slots to rotate across")
	root.Flags().IntVar(&cfg.ClearSlot, "clear-slot", cfg.ClearSlot, "Clip slot triggered by clear")
	root.Flags().BoolVar(&cfg.AutoClearEnabled, "auto-clear", cfg.AutoClearEnabled, "Automatically clear after each message")
	root.Flags().DurationVar(&cfg.AutoClearDelay, "auto-clear-delay", cfg.AutoClearDelay, "Delay before the automatic clear")
	root.Flags().BoolVar(&cfg.ShowStartupPattern, "startup-pattern", cfg.ShowStartupPattern, "Run the identification pattern after connecting")
	root.Flags().BoolVar(&cfg.Dedup, "dedup", cfg.Dedup, "Suppress identical messages within the cache TTL")
	root.Flags().BoolVar(&cfg.Throttle, "throttle", cfg.Throttle, "Suppress identical messages sent in quick succession")
	root.Flags().BoolVar(&cfg.Pooling, "pooling", cfg.Pooling, "Batch messages per address on a fixed interval")
	root.Flags().DurationVar(&cfg.PoolInterval, "pool-interval", cfg.PoolInterval, "Pool flush interval")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "Reload settings when the config file changes")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")
	root.Flags().BoolVar(&fromStdin, "stdin", false, "Dispatch each line read from standard input")
	root.Flags().BoolVar(&clearOnly, "clear", false, "Send a clear trigger and exit")
	root.Flags().BoolVar(&selfTest, "self-test", false, "Run the startup pattern and exit")
	root.Flags().BoolVarP(&forceResend, "force", "f", false, "Bypass dedup and throttle for this message")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func dispatchOne(ctx context.Context, client *textship.Client, text string, force bool) (textship.Result, error) {
	if force {
		return client.DispatchFresh(ctx, text)
	}
	return client.Dispatch(ctx, text)
}

// dispatchLines streams stdin lines as dispatches until EOF or cancellation.
// Blank lines send a clear instead of a message.
func dispatchLines(ctx context.Context, client *textship.Client, logger log.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if err := client.Clear(ctx); err != nil {
				logger.Error("clear", log.Err(err))
			}
			continue
		}
		res, err := client.Dispatch(ctx, line)
		if err != nil {
			logger.Error("dispatch", log.Err(err))
			continue
		}
		logger.Info("dispatched",
			log.String("id", res.ID.String()),
			log.Int("slot", res.Slot),
		)
	}
	return scanner.Err()
}
