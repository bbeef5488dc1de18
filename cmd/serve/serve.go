// cmd/serve/serve.go
package serve

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/logger"
	pwq "github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_cli"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/server"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
)

// ServeCmd represents 'pwq serve'
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluator and generator over HTTP",
	Long: `Start an HTTP server exposing:

  POST /check                 {"password": "..."}  -> strength report
  GET  /api/check/{password}                       -> strength report
  POST /api/generate          {"length": n, "categories": [...]} -> password and report
  GET  /healthz                                    -> {"status": "ok"}

Passwords are never logged. The server stops gracefully on SIGINT/SIGTERM.
Editing the config file while running reloads the log level.`,
	Args: cobra.NoArgs,
	RunE: pwq.Wrap(runServe),
}

func init() {
	flags := ServeCmd.Flags()
	flags.String("addr", "", "Listen address (default from config: 127.0.0.1:8080)")
	pwq.BindConfigKey(flags, "addr", config.KeyServerAddr)
}

func runServe(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	cfg := pwq.Config()

	eval, err := cfg.Evaluator()
	if err != nil {
		return err
	}
	spec, err := cfg.GeneratorSpec()
	if err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return pwq_err.NewConfigurationError("invalid generator section", err)
	}

	srv := server.New(server.Options{
		Config:    cfg.Server,
		Evaluator: eval,
		Generator: crypto.NewGenerator(nil),
		Spec:      spec,
		Logger:    rc.Log,
		Version:   shared.BuildVersion(),
	})

	if v := pwq.Viper(); v != nil {
		if config.Watch(v, rc.Log, func(next *config.Config) {
			logger.SetLevel(next.LogLevel)
			rc.Log.Info("Log level updated", zap.String("log_level", logger.Level().String()))
		}) {
			rc.Log.Info("Watching config for changes", zap.String("file", v.ConfigFileUsed()))
		}
	}

	rc.Log.Info("terminal prompt: pwq listening on http://" + cfg.Server.Addr + " (Ctrl+C to stop)")
	if err := srv.ListenAndServe(rc.Ctx); err != nil {
		return pwq_err.NewNetworkError("server failed", err,
			"Check that "+cfg.Server.Addr+" is free, or pass --addr")
	}
	return nil
}
