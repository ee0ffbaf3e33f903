package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHandler matches every *MalformedHandlerError
	ErrMalformedHandler = errors.New("malformed event handler")

	// ErrDuplicateHandler is returned when two handlers target the same event type
	ErrDuplicateHandler = errors.New("duplicate event handler")
)

// Rule names a handler shape requirement
type Rule string

const (
	RuleNilHandler Rule = "handler function must not be nil"
	RuleArity      Rule = "handler must take exactly one parameter"
	RuleEventType  Rule = "parameter must implement dispatch.Event"
	RuleConcrete   Rule = "parameter must be a concrete event type, not an interface"
	RuleResults    Rule = "handler must return nothing or a single error"
)

// MalformedHandlerError reports a handler that cannot be registered
type MalformedHandlerError struct {
	Handler string
	Rule    Rule
}

func (e *MalformedHandlerError) Error() string {
	return fmt.Sprintf("malformed event handler %s: %s", e.Handler, e.Rule)
}

// Is makes errors.Is(err, ErrMalformedHandler) hold
func (e *MalformedHandlerError) Is(target error) bool {
	return target == ErrMalformedHandler
}
