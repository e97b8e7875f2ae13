package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

const backtraceEnv = "SUBALIGN_BACKTRACE"

// argumentError reports a malformed or out-of-range command-line value.
type argumentError struct {
	Name   string
	Value  string
	Reason string
}

func (e *argumentError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Name, e.Reason)
}

func backtraceEnabled() bool {
	v := strings.TrimSpace(os.Getenv(backtraceEnv))
	return v != "" && v != "0"
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// printErrorChain prints err and each cause on its own line. A layer's
// message is shortened by the text its cause already contributes.
func printErrorChain(w io.Writer, err error, backtrace bool) {
	var trace pkgerrors.StackTrace
	first := true
	for err != nil {
		next := cause(err)
		msg := err.Error()
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		if st, ok := err.(stackTracer); ok && trace == nil {
			trace = st.StackTrace()
		}
		if next == nil || msg != next.Error() {
			if first {
				fmt.Fprintf(w, "error: %s\n", msg)
				first = false
			} else {
				fmt.Fprintf(w, "caused by: %s\n", msg)
			}
		}
		err = next
	}
	if backtrace && trace != nil {
		fmt.Fprintf(w, "\nstack backtrace:%+v\n", trace)
	}
}

// cause returns the next error in the chain. For joined errors the last one
// is taken, matching fmt.Errorf("%w: %w", kind, cause).
func cause(err error) error {
	if next := errors.Unwrap(err); next != nil {
		return next
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		errs := multi.Unwrap()
		if len(errs) > 0 {
			return errs[len(errs)-1]
		}
	}
	return nil
}
