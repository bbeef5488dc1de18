// cmd/self/telemetry.go

package self

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	pwq "github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_cli"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/telemetry"
)

var TelemetryCmd = &cobra.Command{
	Use:   "telemetry [on|off|status]",
	Short: "Manage pwq telemetry collection",
	Long: `Manage local span collection for pwq commands.

Spans are appended to a local JSONL file. No data is sent anywhere, and no
span ever carries a password.

Commands:
  on     - Enable telemetry collection
  off    - Disable telemetry collection
  status - Show telemetry status`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "status"},
	RunE: pwq.Wrap(func(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		log := otelzap.Ctx(rc.Ctx)
		out := cmd.OutOrStdout()

		switch args[0] {
		case "on":
			if err := telemetry.SetMarker(true); err != nil {
				log.Error("Failed to write telemetry toggle file", zap.Error(err))
				return pwq_err.NewFilesystemError("cannot enable telemetry", err)
			}
			log.Info("Telemetry enabled", zap.String("marker", telemetry.MarkerPath()))
			_, _ = fmt.Fprintf(out, "Telemetry enabled. Spans are written to %s\n", telemetry.DefaultPath())
		case "off":
			if err := telemetry.SetMarker(false); err != nil {
				log.Error("Failed to remove telemetry toggle file", zap.Error(err))
				return pwq_err.NewFilesystemError("cannot disable telemetry", err)
			}
			log.Info("Telemetry disabled")
			_, _ = fmt.Fprintln(out, "Telemetry disabled.")
		case "status":
			state := "disabled"
			if telemetry.MarkerEnabled() || pwq.Config().Telemetry {
				state = "enabled"
			}
			_, _ = fmt.Fprintf(out, "Telemetry: %s\n", state)
			if info, err := os.Stat(telemetry.DefaultPath()); err == nil {
				_, _ = fmt.Fprintf(out, "Span file: %s (%d bytes)\n", telemetry.DefaultPath(), info.Size())
			}
		default:
			log.Warn("Invalid telemetry argument", zap.String("arg", args[0]))
			return pwq_err.NewValidationError("usage: pwq self telemetry [on|off|status]")
		}
		return nil
	}),
}

func init() {
	SelfCmd.AddCommand(TelemetryCmd)
}
