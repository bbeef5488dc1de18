/* cmd/root.go */

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Subcommands
	"github.com/CodeMonkeyCybersecurity/pwq/cmd/check"
	"github.com/CodeMonkeyCybersecurity/pwq/cmd/generate"
	"github.com/CodeMonkeyCybersecurity/pwq/cmd/self"
	"github.com/CodeMonkeyCybersecurity/pwq/cmd/serve"
	"github.com/CodeMonkeyCybersecurity/pwq/cmd/watch"

	// Internal packages
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/logger"
	pwq "github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_cli"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_io"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/telemetry"
)

var (
	helpLogged   bool // global guard to log help only once
	registerOnce sync.Once
)

// RootCmd is the base command for pwq.
var RootCmd = &cobra.Command{
	Use:   "pwq",
	Short: "Password quality: evaluate strength and generate secure passwords",
	Long: `pwq evaluates password strength against seven criteria (length, recommended
length, upper case, lower case, digits, special characters, no common patterns),
scores it from 0 to 100 with a label from Very Weak to Very Strong, and
generates random passwords that satisfy chosen character categories.

Configuration is read from $XDG_CONFIG_HOME/pwq/config.yaml (or --config),
PWQ_* environment variables and flags, in increasing order of precedence.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,

	RunE: pwq.Wrap(func(rc *pwq_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		rc.Log.Info("terminal prompt: No subcommand provided. Try `pwq help`.")
		return cmd.Help()
	}),
}

// HelpCmd wraps help so that it can be invoked like a normal command.
var HelpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Long:  "Displays help for pwq or a specific subcommand.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no arguments, show root help
		if len(args) == 0 {
			return RootCmd.Help()
		}
		// Otherwise, find the command and show its help.
		c, _, err := RootCmd.Find(args)
		if err != nil || c == nil {
			return pwq_err.NewValidationError(fmt.Sprintf("command not found: %s", strings.Join(args, " ")))
		}
		return c.Help()
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default $XDG_CONFIG_HOME/pwq/config.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("telemetry", false, "Write command spans to the local telemetry file")
	flags.String("common-passwords", "", "File of extra common passwords, one per line")

	pwq.BindConfigKey(flags, "log-level", config.KeyLogLevel)
	pwq.BindConfigKey(flags, "telemetry", config.KeyTelemetry)
	pwq.BindConfigKey(flags, "common-passwords", config.KeyCommonPasswordsFile)
}

// setup loads config, then re-initialises logging and telemetry from it.
func setup(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("config")

	cfg, v, err := config.Load(config.Options{
		File:  file,
		Flags: pwq.ConfigFlags(cmd.Flags()),
	})
	if err != nil {
		return err
	}
	pwq.SetConfig(cfg, v)

	path, err := logger.Initialize(logger.Options{Level: cfg.LogLevel})
	if err != nil {
		logger.L().Debug("Logging to console only", zap.Error(err))
	}

	if err := telemetry.Init(shared.AppID, telemetry.Options{Enabled: cfg.Telemetry}); err != nil {
		logger.L().Warn("Telemetry disabled", zap.Error(err))
	}

	logger.L().Debug("pwq starting",
		zap.String("command", cmd.CommandPath()),
		zap.String("version", shared.BuildVersion()),
		zap.String("config", config.Source(v)),
		zap.String("log_path", path))
	return nil
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	RootCmd.SetHelpCommand(HelpCmd)

	defaultHelp := RootCmd.HelpFunc()
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if !helpLogged {
			logger.L().Debug("Help requested", zap.String("command", cmd.CommandPath()))
			helpLogged = true
		}
		defaultHelp(cmd, args)
	})

	for _, subCmd := range []*cobra.Command{
		check.CheckCmd,
		generate.GenerateCmd,
		serve.ServeCmd,
		watch.WatchCmd,
		self.SelfCmd,
		VersionCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute initializes and runs the root command, then exits with the code
// matching the error's category.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.L().Debug("Telemetry flush failed", zap.Error(err))
		}
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to flush logs: %v\n", err)
		}
	}()

	registerOnce.Do(RegisterCommands)
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	code := pwq_err.GetExitCode(err)
	if pwq_err.IsExpectedUserError(err) {
		logger.L().Warn("CLI completed with user error", zap.Error(err))
		fmt.Fprintln(RootCmd.ErrOrStderr(), err)
		return code
	}
	logger.L().Debug("CLI execution error", zap.Error(err), zap.Int("exit_code", code))
	fmt.Fprintf(RootCmd.ErrOrStderr(), "Error: %v\n", err)
	return code
}
