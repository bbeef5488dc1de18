// pkg/config/types.go

package config

import "time"

// Config is everything pwq reads from the config file, PWQ_* variables and flags.
type Config struct {
	LogLevel            string          `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Telemetry           bool            `mapstructure:"telemetry"`
	CommonPasswordsFile string          `mapstructure:"common_passwords_file" validate:"omitempty,file"`
	Server              ServerConfig    `mapstructure:"server"`
	Generator           GeneratorConfig `mapstructure:"generator"`
	Watch               WatchConfig     `mapstructure:"watch"`
	Remote              RemoteConfig    `mapstructure:"remote"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr" validate:"required,hostname_port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes" validate:"min=256"`
	MaxPasswordLength int           `mapstructure:"max_password_length" validate:"min=1,max=4096"`
}

type GeneratorConfig struct {
	Length     int      `mapstructure:"length" validate:"min=1,max=4096"`
	Categories []string `mapstructure:"categories" validate:"min=1,dive,category"`
	// Special replaces the alphabet of the special category when set.
	Special string `mapstructure:"special"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

type RemoteConfig struct {
	URL     string        `mapstructure:"url" validate:"omitempty,http_url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Config keys, as used in YAML files and (upper-cased, dots as underscores) in PWQ_* variables.
const (
	KeyLogLevel            = "log_level"
	KeyTelemetry           = "telemetry"
	KeyCommonPasswordsFile = "common_passwords_file"

	KeyServerAddr              = "server.addr"
	KeyServerReadTimeout       = "server.read_timeout"
	KeyServerWriteTimeout      = "server.write_timeout"
	KeyServerShutdownTimeout   = "server.shutdown_timeout"
	KeyServerMaxBodyBytes      = "server.max_body_bytes"
	KeyServerMaxPasswordLength = "server.max_password_length"

	KeyGeneratorLength     = "generator.length"
	KeyGeneratorCategories = "generator.categories"
	KeyGeneratorSpecial    = "generator.special"

	KeyWatchDebounce = "watch.debounce"

	KeyRemoteURL     = "remote.url"
	KeyRemoteTimeout = "remote.timeout"
)
