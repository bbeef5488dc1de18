// cmd/watch/watch.go
package watch

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/httpclient"
	pwq "github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_cli"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/tui"
)

// WatchCmd represents 'pwq watch'
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Evaluate a password live as you type",
	Long: `Open an interactive screen that re-evaluates the password as you type.

Keys:
  ctrl+r  show or hide the password
  ctrl+g  generate a password and evaluate it
  esc     quit

Evaluation waits until typing pauses (watch.debounce, default 300ms); results
for text you have already changed are discarded. With --remote the server at
that URL does the evaluation; if it fails, the last report stays on screen.

When stdin is not a terminal, or with --plain, every input line is treated as
the new field contents and one summary line is printed per evaluation.`,
	Args: cobra.NoArgs,
	RunE: pwq.Wrap(runWatch),
}

func init() {
	flags := WatchCmd.Flags()
	flags.Bool("plain", false, "Line mode: read lines from stdin, print one summary per evaluation")
	flags.String("remote", "", "Evaluate through a running `pwq serve` at this URL")
	flags.Duration("debounce", 0, "Quiet period before evaluating (default from config: 300ms)")
	pwq.BindConfigKey(flags, "remote", config.KeyRemoteURL)
	pwq.BindConfigKey(flags, "debounce", config.KeyWatchDebounce)
}

func runWatch(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	cfg := pwq.Config()
	plain, _ := cmd.Flags().GetBool("plain")

	check, source, err := checker(rc, cfg)
	if err != nil {
		return err
	}
	wait := cfg.Watch.Debounce

	if plain || !pwq_io.IsInteractive() {
		rc.Log.Debug("Watching stdin lines", zap.Duration("debounce", wait), zap.String("source", source))
		return tui.RunPlain(rc.Ctx, cmd.InOrStdin(), cmd.OutOrStdout(), check, wait)
	}

	spec, err := cfg.GeneratorSpec()
	if err != nil {
		return err
	}

	rc.Log.Debug("Starting interactive watch", zap.Duration("debounce", wait), zap.String("source", source))
	err = tui.Run(rc.Ctx, tui.Options{
		Check:     check,
		Generator: crypto.NewGenerator(nil),
		Spec:      spec,
		Wait:      wait,
		Source:    source,
	}, tea.WithOutput(cmd.ErrOrStderr()), tea.WithAltScreen())
	if err != nil && rc.Ctx.Err() == nil {
		return pwq_err.NewInternalError("interactive screen failed", err)
	}
	return rc.Ctx.Err()
}

func checker(rc *pwq_io.RuntimeContext, cfg *config.Config) (tui.Checker, string, error) {
	if cfg.Remote.URL == "" {
		eval, err := cfg.Evaluator()
		if err != nil {
			return nil, "", err
		}
		return tui.LocalChecker(eval), "local", nil
	}

	client, err := httpclient.NewForURL(cfg.Remote.URL, cfg.Remote.Timeout, rc.Log)
	if err != nil {
		return nil, "", pwq_err.NewConfigurationError("invalid remote settings", err)
	}
	return client.Check, "remote " + cfg.Remote.URL, nil
}
