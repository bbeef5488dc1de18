// pkg/pwq_cli/config.go

package pwq_cli

import (
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/config"
)

// annotationConfigKey marks a flag as the command-line override of a config key.
const annotationConfigKey = "pwq_config_key"

var (
	mu     sync.RWMutex
	loaded *config.Config
	vip    *viper.Viper
)

// BindConfigKey declares that flag overrides key. The root command collects
// these with ConfigFlags before loading the config.
func BindConfigKey(fs *pflag.FlagSet, flag, key string) {
	if err := fs.SetAnnotation(flag, annotationConfigKey, []string{key}); err != nil {
		panic(err) // programming error: the flag must be defined first
	}
}

// ConfigFlags maps config keys to the annotated flags in fs.
func ConfigFlags(fs *pflag.FlagSet) map[string]*pflag.Flag {
	out := make(map[string]*pflag.Flag)
	fs.VisitAll(func(f *pflag.Flag) {
		if keys := f.Annotations[annotationConfigKey]; len(keys) == 1 {
			out[keys[0]] = f
		}
	})
	return out
}

// SetConfig publishes the config loaded for this run.
func SetConfig(cfg *config.Config, v *viper.Viper) {
	mu.Lock()
	defer mu.Unlock()
	loaded, vip = cfg, v
}

// Config is the loaded config, or the defaults when none was loaded.
func Config() *config.Config {
	mu.RLock()
	cfg := loaded
	mu.RUnlock()
	if cfg != nil {
		return cfg
	}
	return config.Defaults()
}

// Viper is the instance behind Config, for watching. Nil before SetConfig.
func Viper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	return vip
}
