// cmd/generate/generate.go
package generate

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/output"
	pwq "github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_cli"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

const maxCount = 1000

// GenerateCmd represents 'pwq generate'
var GenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate secure random passwords",
	Long: `Generate passwords from a cryptographically secure random source.

Every password holds at least one character from each selected category;
the rest are drawn from all selected categories together and the result is
shuffled. Defaults come from the generator section of the config file.

Examples:
  pwq generate
  pwq generate --length 24 --count 5
  pwq generate --categories lowercase,digits --length 10
  pwq generate --special '!#%' --check --output json
  pwq generate --bcrypt --bcrypt-cost 12`,
	Args: cobra.NoArgs,
	RunE: pwq.Wrap(runGenerate),
}

func init() {
	flags := GenerateCmd.Flags()
	flags.IntP("length", "l", 0, "Password length in characters (default from config: 16)")
	flags.StringSlice("categories", nil, "Character categories: lowercase, uppercase, digits, special")
	flags.String("special", "", "Replace the special-character alphabet")
	flags.IntP("count", "n", 1, "Number of passwords to generate")
	flags.Bool("check", false, "Evaluate each password and show its report")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.Bool("bcrypt", false, "Also print a bcrypt hash of each password")
	flags.Int("bcrypt-cost", 0, "bcrypt cost factor, 4 to 31 (default 10)")

	pwq.BindConfigKey(flags, "length", config.KeyGeneratorLength)
	pwq.BindConfigKey(flags, "categories", config.KeyGeneratorCategories)
	pwq.BindConfigKey(flags, "special", config.KeyGeneratorSpecial)
}

// Generated is one entry of json and yaml output.
type Generated struct {
	Password string           `json:"password" yaml:"password"`
	Bcrypt   string           `json:"bcrypt,omitempty" yaml:"bcrypt,omitempty"`
	Report   *strength.Report `json:"report,omitempty" yaml:"report,omitempty"`
}

// Options are the per-run extras of Passwords.
type Options struct {
	// Evaluator attaches a report to each password when set.
	Evaluator *strength.Evaluator
	// Bcrypt hashes each password at BcryptCost (0 is the bcrypt default).
	Bcrypt     bool
	BcryptCost int
}

func runGenerate(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(must(cmd.Flags().GetString("output")))
	if err != nil {
		return pwq_err.NewValidationError(err.Error())
	}
	count := must(cmd.Flags().GetInt("count"))
	if count < 1 || count > maxCount {
		return pwq_err.NewValidationError(fmt.Sprintf("--count must be between 1 and %d", maxCount))
	}
	withCheck := must(cmd.Flags().GetBool("check"))
	opts := Options{
		Bcrypt:     must(cmd.Flags().GetBool("bcrypt")),
		BcryptCost: must(cmd.Flags().GetInt("bcrypt-cost")),
	}
	if opts.BcryptCost != 0 && (opts.BcryptCost < 4 || opts.BcryptCost > 31) {
		return pwq_err.NewValidationError("--bcrypt-cost must be between 4 and 31")
	}

	cfg := pwq.Config()
	spec, err := cfg.GeneratorSpec()
	if err != nil {
		return err
	}

	if opts.Bcrypt && spec.Length > crypto.BcryptMaxBytes {
		return pwq_err.NewValidationError(
			fmt.Sprintf("--bcrypt needs a length of at most %d", crypto.BcryptMaxBytes))
	}
	if withCheck {
		if opts.Evaluator, err = cfg.Evaluator(); err != nil {
			return err
		}
	}

	results, err := Passwords(crypto.NewGenerator(nil), spec, count, opts)
	if err != nil {
		return err
	}

	rc.Log.Info("Passwords generated",
		zap.Int("count", count),
		zap.Int("length", spec.Length),
		zap.Int("categories", len(spec.Categories)),
		zap.Bool("bcrypt", opts.Bcrypt))

	var data interface{} = results
	if count == 1 {
		data = results[0]
	}
	return output.Write(cmd.OutOrStdout(), format, data, func(w io.Writer) error {
		return writeText(w, results)
	})
}

// Passwords generates count passwords.
func Passwords(gen *crypto.Generator, spec crypto.Spec, count int, opts Options) ([]Generated, error) {
	out := make([]Generated, 0, count)
	for i := 0; i < count; i++ {
		pw, err := gen.Generate(spec)
		if err != nil {
			if crypto.IsConfigurationError(err) {
				return nil, pwq_err.NewValidationError(err.Error(),
					"Use a --length of at least the number of categories",
					"Valid categories: lowercase, uppercase, digits, special")
			}
			return nil, pwq_err.NewInternalError("password generation failed", err)
		}
		g := Generated{Password: pw}
		if opts.Bcrypt {
			if len(pw) > crypto.BcryptMaxBytes {
				// multi-byte special characters
				return nil, pwq_err.NewValidationError(
					fmt.Sprintf("--bcrypt: password is %d bytes, bcrypt takes at most %d", len(pw), crypto.BcryptMaxBytes))
			}
			if g.Bcrypt, err = crypto.HashPassword(pw, opts.BcryptCost); err != nil {
				return nil, pwq_err.NewInternalError("bcrypt hashing failed", err)
			}
		}
		if opts.Evaluator != nil {
			r := opts.Evaluator.Evaluate(pw)
			g.Report = &r
		}
		out = append(out, g)
	}
	return out, nil
}

// writeText prints one password per line. With reports, a single password
// gets the full report and several get a summary table.
func writeText(w io.Writer, results []Generated) error {
	if len(results) > 1 && results[0].Report != nil {
		return writeTable(w, results)
	}
	for i, g := range results {
		if _, err := fmt.Fprintln(w, g.Password); err != nil {
			return err
		}
		if g.Bcrypt != "" {
			if _, err := fmt.Fprintln(w, g.Bcrypt); err != nil {
				return err
			}
		}
		if g.Report == nil {
			continue
		}
		if err := output.ReportText(w, *g.Report, nil); err != nil {
			return err
		}
		if i < len(results)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTable(w io.Writer, results []Generated) error {
	headers := []string{"PASSWORD", "STRENGTH", "SCORE", "ENTROPY"}
	if results[0].Bcrypt != "" {
		headers = append(headers, "BCRYPT")
	}
	table := output.NewTableTo(w).WithHeaders(headers...)
	for _, g := range results {
		row := []string{
			g.Password,
			g.Report.Strength.String(),
			strconv.Itoa(g.Report.Score),
			strconv.FormatFloat(g.Report.Entropy, 'f', 1, 64),
		}
		if g.Bcrypt != "" {
			row = append(row, g.Bcrypt)
		}
		table.AddRow(row...)
	}
	return table.Render()
}

func must[T any](v T, err error) T {
	if err != nil {
		// flags are defined in init; a miss is a bug
		panic(err)
	}
	return v
}
