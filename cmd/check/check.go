// cmd/check/check.go
package check

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/output"
	pwq "github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_cli"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// CheckCmd represents 'pwq check'
var CheckCmd = &cobra.Command{
	Use:   "check [password]",
	Short: "Evaluate the strength of a password",
	Long: `Evaluate a password against the seven strength criteria and report its
strength label, score (0-100), entropy and feedback.

The password is taken from the argument, from the first line of stdin with
--stdin, or from a hidden prompt. Passing it as an argument leaves it in your
shell history; prefer the prompt or --stdin.

Examples:
  pwq check
  printf '%s\n' "$PW" | pwq check --stdin --output json
  pwq check --hint alice --hint alice@example.com
  pwq check --remote http://127.0.0.1:8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: pwq.Wrap(runCheck),
}

func init() {
	flags := CheckCmd.Flags()
	flags.Bool("stdin", false, "Read the password from the first line of stdin")
	flags.StringSlice("hint", nil, "Personal information that must not appear in the password (repeatable)")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.Bool("estimate", false, "Add a zxcvbn guess estimate")
	flags.String("remote", "", "Evaluate through a running `pwq serve` at this URL")
	pwq.BindConfigKey(flags, "remote", config.KeyRemoteURL)
}

// Result is what json and yaml output contain.
type Result struct {
	strength.Report `yaml:",inline"`
	Estimate        *strength.GuessEstimate `json:"estimate,omitempty" yaml:"estimate,omitempty"`
}

func runCheck(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(mustString(cmd, "output"))
	if err != nil {
		return pwq_err.NewValidationError(err.Error())
	}
	useStdin, _ := cmd.Flags().GetBool("stdin")
	hints, _ := cmd.Flags().GetStringSlice("hint")
	withEstimate, _ := cmd.Flags().GetBool("estimate")

	password, err := readPassword(rc, cmd.InOrStdin(), args, useStdin)
	if err != nil {
		return err
	}

	cfg := pwq.Config()
	report, err := evaluate(rc, cfg, password, hints)
	if err != nil {
		return err
	}

	var est *strength.GuessEstimate
	if withEstimate {
		e := strength.Estimate(password, hints...)
		est = &e
	}

	rc.Log.Info("Password evaluated",
		crypto.SecretField("password", password),
		zap.Stringer("strength", report.Strength),
		zap.Int("score", report.Score),
		zap.Bool("remote", cfg.Remote.URL != ""))

	return output.Write(cmd.OutOrStdout(), format, Result{Report: *report, Estimate: est}, func(w io.Writer) error {
		return output.ReportText(w, *report, est)
	})
}

func readPassword(rc *pwq_io.RuntimeContext, in io.Reader, args []string, useStdin bool) (string, error) {
	switch {
	case len(args) == 1 && useStdin:
		return "", pwq_err.NewValidationError("give the password as an argument or with --stdin, not both")
	case len(args) == 1:
		rc.Log.Debug("Password taken from argument")
		if err := pwq_io.ValidatePassword(args[0], "password"); err != nil {
			return "", pwq_err.NewValidationError(err.Error())
		}
		return args[0], nil
	case useStdin:
		pw, err := pwq_io.ReadPasswordFrom(in)
		if err != nil {
			return "", pwq_err.NewValidationError(err.Error())
		}
		return pw, nil
	default:
		return pwq_io.PromptSecurePassword(rc, "Password: ")
	}
}

func evaluate(rc *pwq_io.RuntimeContext, cfg *config.Config, password string, hints []string) (*strength.Report, error) {
	if cfg.Remote.URL == "" {
		eval, err := cfg.Evaluator()
		if err != nil {
			return nil, err
		}
		r := eval.Evaluate(password, hints...)
		return &r, nil
	}

	if len(hints) > 0 {
		rc.Log.Warn("Hints are not sent to the remote evaluator", zap.Int("hints", len(hints)))
	}
	client, err := httpclient.NewForURL(cfg.Remote.URL, cfg.Remote.Timeout, rc.Log)
	if err != nil {
		return nil, pwq_err.NewConfigurationError("invalid remote settings", err)
	}

	ctx, cancel := context.WithTimeout(rc.Ctx, cfg.Remote.Timeout)
	defer cancel()
	report, err := client.Check(ctx, password)
	if err != nil {
		rc.Log.Error("Remote check failed", zap.String("url", cfg.Remote.URL), zap.Error(err))
		return nil, pwq_err.NewNetworkError("remote check failed", err,
			"Is `pwq serve` running at "+cfg.Remote.URL+"?",
			"Drop --remote to evaluate locally")
	}
	return report, nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		// flags are defined in init; a miss is a bug
		panic(err)
	}
	return v
}
