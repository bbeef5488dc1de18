// pkg/pwq_cli/wrap.go

package pwq_cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
)

// RunFunc is the body of a command.
type RunFunc func(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error

// Wrap adapts fn to cobra's RunE with a runtime context, panic recovery,
// interrupt handling and stack capture on unexpected errors.
func Wrap(fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		rc := pwq_io.NewContext(ctx, cmd.Name())
		defer rc.End(&err)

		// Panic recovery
		defer func() {
			if r := recover(); r != nil {
				err = pwq_err.NewInternalError("unexpected panic", cerr.AssertionFailedf("panic: %v", r))
				rc.Log.Error("Panic recovered", zap.Any("panic", r))
			}
		}()

		rc.Log.Debug("Command started", zap.Int("args", len(args)))

		err = fn(rc, cmd, args)
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil && parent.Err() == nil && cerr.Is(err, context.Canceled):
			// interrupted by SIGINT/SIGTERM
			return pwq_err.NewUserCancelledError(cmd.Name())
		case pwq_err.IsExpectedUserError(err):
			return err
		default:
			return cerr.WithStack(err)
		}
	}
}
