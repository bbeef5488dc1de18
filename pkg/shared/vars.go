// pkg/shared/vars.go

package shared

import (
	"errors"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/CodeMonkeyCybersecurity/pwq/pkg/shared.Version=v1.2.3".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

var ErrNotTTY = errors.New("cannot prompt: not a TTY")

// BuildVersion returns Version, falling back to the module version recorded by
// `go install` when no ldflags were given.
func BuildVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
