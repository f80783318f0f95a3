// Errors reported by the binding parsers and the action dispatcher.
// Callers match them with errors.Is; the parsers wrap them with the
// offending text.
package wmerr

import (
	"github.com/pkg/errors"
)

var (
	ErrUnknownModifier    = errors.New("unknown modifier")
	ErrUnknownKey         = errors.New("unknown key")
	ErrInvalidAction      = errors.New("invalid action")
	ErrBadArgument        = errors.New("bad argument")
	ErrUnexpectedArgument = errors.New("unexpected argument")
	ErrMissingArgument    = errors.New("missing argument")
	ErrDispatchUnhandled  = errors.New("unhandled action")
)

//----------

// Wrapf annotates a sentinel with a label (usually the binding descriptor)
// and a formatted detail. The result still matches the sentinel with
// errors.Is.
func Wrapf(err error, label string, format string, args ...interface{}) error {
	err = errors.Wrapf(err, format, args...)
	if label != "" {
		err = errors.WithMessage(err, label)
	}
	return err
}
