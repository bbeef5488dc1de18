// pkg/config/config.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/verify"
)

// SetDefaults registers every key so that PWQ_* variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTelemetry, false)
	v.SetDefault(KeyCommonPasswordsFile, "")

	v.SetDefault(KeyServerAddr, "127.0.0.1:8080")
	v.SetDefault(KeyServerReadTimeout, 5*time.Second)
	v.SetDefault(KeyServerWriteTimeout, 10*time.Second)
	v.SetDefault(KeyServerShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyServerMaxBodyBytes, 16*1024)
	v.SetDefault(KeyServerMaxPasswordLength, shared.MaxPasswordLength)

	v.SetDefault(KeyGeneratorLength, crypto.DefaultLength)
	v.SetDefault(KeyGeneratorCategories, []string{"lowercase", "uppercase", "digits", "special"})
	v.SetDefault(KeyGeneratorSpecial, "")

	v.SetDefault(KeyWatchDebounce, 300*time.Millisecond)

	v.SetDefault(KeyRemoteURL, "")
	v.SetDefault(KeyRemoteTimeout, 5*time.Second)
}

// Defaults is the config with no file, environment or flags applied.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(err) // the built-in defaults are always valid
	}
	return cfg
}

// Options says where Load looks.
type Options struct {
	// File is an explicit config file; it must exist. Empty means the default
	// location, which may be absent.
	File string
	// EnvFiles are dotenv files tried in order; the first that loads wins.
	// Nil means ".env" in the working directory.
	EnvFiles []string
	// Flags binds command-line flags over file and environment values.
	Flags map[string]*pflag.Flag
}

// DefaultDir is $XDG_CONFIG_HOME/pwq (or the platform equivalent).
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, shared.AppID)
	}
	return "."
}

// New returns a viper instance with defaults, env binding and config file
// location set, and the dotenv files applied to the process environment.
func New(opts Options) *viper.Viper {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(shared.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
	}
	return v
}

// Load reads the config file (if any), applies env and flags, and validates.
// The viper instance is returned for Watch.
func Load(opts Options) (*Config, *viper.Viper, error) {
	v := New(opts)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !cerr.As(err, &notFound) {
			return nil, nil, pwq_err.NewConfigurationError("cannot read config file", err,
				"Check the file passed with --config",
				"Config files are YAML; see `pwq --help` for keys")
		}
	}

	if err := BindFlags(v, opts.Flags); err != nil {
		return nil, nil, pwq_err.NewInternalError("cannot bind flags", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// BindFlags binds each flag to its config key. Flags left at their default do
// not override file or environment values.
func BindFlags(v *viper.Viper, flags map[string]*pflag.Flag) error {
	var result error
	for key, f := range flags {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, pwq_err.NewConfigurationError("cannot decode configuration", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := verify.Struct(cfg); err != nil {
		return nil, pwq_err.NewConfigurationError("invalid configuration", err,
			"Fix the listed keys in the config file or PWQ_* environment variables")
	}
	return &cfg, nil
}

// Source describes where the config came from, for logs.
func Source(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}
	return "(defaults and environment)"
}
