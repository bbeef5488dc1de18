// pkg/verify/validate.go

package verify

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator. Field names in errors come from the
// mapstructure, json or yaml tag, so they match what users type in config files
// and request bodies.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(tagName)
		_ = v.RegisterValidation("category", isCategory)
		validate = v
	})
	return validate
}

func tagName(f reflect.StructField) string {
	for _, key := range []string{"mapstructure", "json", "yaml"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// isCategory accepts names crypto.CategoryByName resolves.
func isCategory(fl validator.FieldLevel) bool {
	_, err := crypto.CategoryByName(fl.Field().String())
	return err == nil
}

// Struct validates a Go struct with `validate:` tags. Every failing field is
// reported; the result unwraps to validator.ValidationErrors.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !cerr.As(err, &fieldErrs) {
		return cerr.Wrap(err, "validate")
	}

	var merr *multierror.Error
	for _, fe := range fieldErrs {
		merr = multierror.Append(merr, &FieldError{Field: fieldPath(fe), Tag: fe.Tag(), Param: fe.Param(), Value: fe.Value()})
	}
	merr.ErrorFormat = func(es []error) string {
		parts := make([]string, len(es))
		for i, e := range es {
			parts[i] = e.Error()
		}
		return strings.Join(parts, "; ")
	}
	return merr
}

// FieldError is one failed rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
	Value any
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field, e.Param)
	case "category":
		return fmt.Sprintf("%s: unknown character category %v", e.Field, e.Value)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a URL", e.Field)
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", e.Field)
	}
	return fmt.Sprintf("%s failed %q validation", e.Field, e.Tag)
}

// fieldPath drops the top-level struct name: "Config.server.addr" becomes "server.addr".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// Fields lists the failing field paths in err, in order.
func Fields(err error) []string {
	var merr *multierror.Error
	if !cerr.As(err, &merr) {
		return nil
	}
	var out []string
	for _, e := range merr.Errors {
		var fe *FieldError
		if cerr.As(e, &fe) {
			out = append(out, fe.Field)
		}
	}
	return out
}
