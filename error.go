package conclave

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ConfigError marks invalid verification inputs: a malformed protocol
// definition, an empty composition, a priority list that is not a
// permutation of the composed protocol names. It is always raised before
// any traversal starts, so a configuration mistake can never surface as a
// property violation.
type ConfigError struct {
	msg   string
	err   error
	frame xerrors.Frame
}

// Configf creates a ConfigError from a format string. The stack trace
// begins at the caller.
func Configf(format string, args ...interface{}) error {
	return &ConfigError{
		msg:   fmt.Sprintf(format, args...),
		frame: xerrors.Caller(1),
	}
}

// ConfigWrap annotates err as a configuration error, keeping err available
// for comparison through the chain. It returns nil when err is nil.
func ConfigWrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ConfigError{
		msg:   msg,
		err:   err,
		frame: xerrors.Caller(1),
	}
}

// IsConfig returns true when err or any error it wraps is a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return xerrors.As(err, &ce)
}

func (e *ConfigError) Error() string {
	if e.err != nil {
		return e.msg + ": " + fmt.Sprintf("%v", e.err)
	}
	return e.msg
}

// Unwrap returns the next error in the chain.
func (e *ConfigError) Unwrap() error {
	return e.err
}

// Format prints the error to the formatter.
func (e *ConfigError) Format(f fmt.State, c rune) {
	xerrors.FormatError(e, f, c)
}

// FormatError prints the error to the printer. It prints the stack trace
// when '+' is used in combination with 'v'.
func (e *ConfigError) FormatError(p xerrors.Printer) error {
	p.Printf("%s", e.msg)
	if p.Detail() {
		e.frame.Format(p)
		if e.err != nil {
			p.Printf("%+v", e.err)
		}
	} else if e.err != nil {
		p.Printf(": %v", e.err)
	}
	return nil
}
