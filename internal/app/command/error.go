package command

import (
	"errors"
	"fmt"

	"github.com/openconceptlab/ocladmin/pkg/api"
	"github.com/openconceptlab/ocladmin/pkg/dictionary"
)

type Error struct {
	Inner error
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Msg, e.Inner)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

// WrapError marks err as a command failure. Validation errors are expanded into a
// stack trace so every invalid field gets logged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var verr *dictionary.ValidationError
	if errors.As(err, &verr) {
		return &Error{
			Inner: verr.StackTrace(),
			Msg:   "invalid dictionary",
		}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		return &Error{
			Inner: err,
			Msg:   "not authorized, try logging in again",
		}
	}

	return &Error{
		Inner: err,
		Msg:   "command failed",
	}
}
