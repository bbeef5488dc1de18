// pkg/pwq_io/input.go

package pwq_io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
)

// InputValidationError represents input validation errors. It never carries the input itself.
type InputValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

func (e *InputValidationError) Unwrap() error {
	return e.Err
}

// ValidatePassword enforces the byte limit. Any content is otherwise accepted:
// control characters and invalid UTF-8 are evaluated like everything else.
func ValidatePassword(password, field string) error {
	if len(password) > shared.MaxPasswordLength {
		return &InputValidationError{
			Field:  field,
			Reason: fmt.Sprintf("too long (%d bytes, max %d)", len(password), shared.MaxPasswordLength),
			Err:    pwq_err.ErrPasswordTooLong,
		}
	}
	return nil
}

// ReadPasswordFrom reads the first line of r (non-interactive use). A trailing
// CR is dropped so files with Windows line endings work.
func ReadPasswordFrom(r io.Reader) (string, error) {
	buf, err := io.ReadAll(io.LimitReader(r, shared.MaxPasswordLength+2))
	if err != nil {
		return "", cerr.Wrap(err, "read password")
	}

	line := buf
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		line = buf[:i]
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})

	pw := string(line)
	if err := ValidatePassword(pw, "stdin"); err != nil {
		return "", err
	}
	return pw, nil
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptSecurePassword prompts on stderr and reads a password without echo.
func PromptSecurePassword(rc *RuntimeContext, prompt string) (string, error) {
	log := otelzap.Ctx(rc.Ctx)

	if !IsInteractive() {
		return "", pwq_err.NewExpectedError(cerr.Wrap(shared.ErrNotTTY, "pass the password as an argument or use --stdin"))
	}

	_, _ = fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", cerr.Wrap(err, "failed to read password")
	}

	pw := string(raw)
	if err := ValidatePassword(pw, "password"); err != nil {
		log.Warn("Invalid password input", zap.Error(err))
		return "", err
	}

	log.Debug("Read password from terminal", zap.Int("bytes", len(pw)))
	return pw, nil
}
