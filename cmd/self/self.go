// cmd/self/self.go

package self

import (
	"github.com/spf13/cobra"
)

// SelfCmd is the root command for managing pwq itself
var SelfCmd = &cobra.Command{
	Use:   "self",
	Short: "Self-management commands for pwq",
	Long:  `The self command manages pwq's own behaviour, such as local telemetry.`,
}
