// pkg/shared/constants.go

package shared

const (
	AppID     = "pwq"
	EnvPrefix = "PWQ"

	// MaxPasswordLength bounds every password read from a terminal, stdin or a request body, in bytes.
	MaxPasswordLength = 4096
)

const (
	// Permission modes (in octal)
	DirPermOwner           = 0700
	FilePermOwnerReadWrite = 0600
)
