package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"go.trai.ch/memo/internal/adapters/debug"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/adapters/watch"
	"go.trai.ch/memo/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the memoization runtime with theme hot reload and diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			configPath := c.configPath()

			settings, err := c.components.Loader.Load(configPath)
			if err != nil {
				return err
			}

			// With the debug server enabled the runtime records real
			// metrics; otherwise the wired no-op recorder stays in place.
			recorder := c.components.Telemetry
			if settings.Debug.Addr != "" {
				recorder = telemetry.NewOTel(c.components.Logger)
			}

			runtime := app.NewRuntime(app.RuntimeConfig{
				Encoder:   c.components.Encoder,
				Resolver:  c.components.Resolver,
				Monitor:   c.components.Monitor,
				Logger:    c.components.Logger,
				Telemetry: recorder,
				Settings:  settings,
			})
			runtime.Start()
			defer runtime.Stop()

			watcher := watch.NewThemeWatcher(c.components.Logger, 0)
			stopWatch, err := runtime.WatchTheme(configPath, c.components.Loader, watcher)
			if err != nil {
				c.components.Logger.Warn("theme hot reload unavailable", "error", err)
			} else {
				defer stopWatch()
			}

			if settings.Debug.Addr != "" {
				srv := debug.NewServer(settings.Debug.Addr, runtime, c.components.Logger)
				srv.Start()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			c.components.Logger.Info("runtime serving", "config", configPath, "debug_addr", settings.Debug.Addr)
			<-ctx.Done()
			return nil
		},
	}
}
