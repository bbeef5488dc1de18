// pkg/pwq_err/wrap.go

package pwq_err

import (
	cerr "github.com/cockroachdb/errors"
)

func WrapValidationError(err error) error {
	return cerr.WithHint(cerr.WithStack(err), "validation failed")
}

func WrapConfigError(err error) error {
	return cerr.WithHint(cerr.WithStack(err), "check the config file and PWQ_* environment variables")
}
