/* pkg/tui/plain.go */

package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/debounce"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/output"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// RunPlain is the line-mode watch for non-terminal input: every line of r is
// treated as the new field contents, lines arriving within wait of each other
// are coalesced, and one summary line per evaluation goes to w. The last line
// is always evaluated before RunPlain returns.
func RunPlain(ctx context.Context, r io.Reader, w io.Writer, check Checker, wait time.Duration) error {
	log := otelzap.Ctx(ctx)
	if check == nil {
		check = LocalChecker(nil)
	}

	var d *debounce.Debouncer[string]
	d = debounce.New(ctx, wait, func(t debounce.Ticket, pw string) {
		report, err := check(t.Ctx, pw)
		if err != nil && cerr.Is(err, context.Canceled) {
			return
		}
		// a newer line wins; its result is the one to show
		d.Gate().Do(t, func() {
			if err != nil {
				// the previous line stays the latest good report
				log.Warn("Check failed", zap.Error(err))
				_, _ = fmt.Fprintf(w, "! check failed: %v\n", err)
				return
			}
			_, _ = io.WriteString(w, SummaryLine(*report))
			log.Debug("Evaluated line", crypto.SecretField("password", pw), zap.Int("score", report.Score))
		})
	})
	defer d.Stop()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), shared.MaxPasswordLength+2)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			// cleared field: nothing to show, and nothing older may show either
			d.Gate().Next()
			continue
		}
		d.Trigger(line)
	}
	if err := sc.Err(); err != nil {
		return cerr.Wrap(err, "read input")
	}

	d.Flush()
	return ctx.Err()
}

// SummaryLine is the one-line rendering used by line mode.
func SummaryLine(r strength.Report) string {
	var hint string
	if len(r.Feedback) > 0 {
		hint = r.Feedback[0]
	}
	return fmt.Sprintf("%-11s %3d/%d [%s] %s\n",
		r.Strength, r.Score, strength.MaxScore, output.Meter(r.Score, 20), hint)
}
