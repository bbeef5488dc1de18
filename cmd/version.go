/* cmd/version.go */

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	pwq "github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_cli"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
)

// VersionCmd prints build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pwq version",
	Args:  cobra.NoArgs,
	RunE: pwq.Wrap(func(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "pwq %s\n", shared.BuildVersion())
		if shared.Commit != "" {
			_, _ = fmt.Fprintf(out, "commit:  %s\n", shared.Commit)
		}
		if shared.BuildDate != "" {
			_, _ = fmt.Fprintf(out, "built:   %s\n", shared.BuildDate)
		}
		_, _ = fmt.Fprintf(out, "go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	}),
}
