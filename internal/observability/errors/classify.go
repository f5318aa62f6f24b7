// Package errors derives low-cardinality labels from error chains for logs.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// Classify returns "<code>/<cause type>" for err, e.g. "backend_unavailable/pgconn_connecterror".
// The code part is empty when err carries no application code.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	code := string(apperrors.GetCode(err))
	return code + "/" + causeType(err)
}

// causeType names the innermost concrete type in err's chain in snake case.
func causeType(err error) string {
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
