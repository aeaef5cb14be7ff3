package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/botstrap"
	"github.com/aretw0/botstrap/pkg/adapters/fs"
	botlifecycle "github.com/aretw0/botstrap/pkg/adapters/lifecycle"
	"github.com/aretw0/botstrap/pkg/core"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [name]",
	Short: "Re-resolve a bot every time its artifacts change",
	Long: `Watch resolves the bot once, then watches its directory and resolves it
again whenever the bot, cfgs or meta artifact is written. Each resolution
reads the artifacts fresh, so the output always reflects the files on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, err := botstrap.BotsSchema(ctx, cfg.WorkDir, resolverOptions(cmd)...)
		if err != nil {
			return err
		}
		entry, ok := reg.Find(name)
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrBotNotFound, name)
		}

		r, err := newResolver(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report := func() {
			if data := r.Resolve(ctx, name); data != nil {
				fmt.Fprintf(out, "[OK] %s resolved (%d config profiles)\n", name, len(data.Configs))
			}
		}
		report()

		dir := entry.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.WorkDir(), dir)
		}

		events := make(chan core.Event, 16)
		w, err := fs.NewWatcher(fs.WatcherConfig{
			Dir:      dir,
			Debounce: watchDebounce,
			Logger:   slog.Default(),
		}, events)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := w.Stop(stopCtx); err != nil {
				slog.Warn("failed to stop watcher", "error", err)
			}
		}()

		src := botlifecycle.NewSource(events, botlifecycle.Artifacts(core.BotModuleName, core.ConfigModuleName, core.MetaModuleName))
		if err := src.Start(ctx); err != nil {
			return err
		}

		slog.Info("watching bot", "name", name, "dir", dir)
		for e := range src.Events() {
			slog.Info("artifact changed", "event", e.String())
			report()
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Coalesce bursts of writes (default 50ms)")
	rootCmd.AddCommand(watchCmd)
}
