package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Event is the marker interface for everything that can be posted
type Event interface {
	ImplementsEvent()
}

// HandlerFunc is a registered handler, already bound to its owner
type HandlerFunc func(Event) error

var eventType = reflect.TypeFor[Event]()

// Builder collects handlers and validation errors before Build
type Builder struct {
	handlers map[reflect.Type]HandlerFunc
	names    map[reflect.Type]string
	errs     []error
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		handlers: make(map[reflect.Type]HandlerFunc),
		names:    make(map[reflect.Type]string),
	}
}

// On registers fn as the handler for events of type E
func On[E Event](b *Builder, fn func(E) error) *Builder {
	t := reflect.TypeFor[E]()
	name := "On[" + t.String() + "]"

	switch {
	case fn == nil:
		b.fail(&MalformedHandlerError{Handler: name, Rule: RuleNilHandler})
	case t.Kind() == reflect.Interface:
		b.fail(&MalformedHandlerError{Handler: name, Rule: RuleConcrete})
	default:
		b.add(t, name, func(e Event) error {
			return fn(e.(E))
		})
	}
	return b
}

func (b *Builder) add(t reflect.Type, name string, h HandlerFunc) {
	if prev, exists := b.names[t]; exists {
		b.fail(fmt.Errorf("%w: %s and %s both handle %s", ErrDuplicateHandler, prev, name, t))
		return
	}
	b.handlers[t] = h
	b.names[t] = name
}

func (b *Builder) fail(err error) {
	b.errs = append(b.errs, err)
}

// Build returns the finished table, or every registration error joined.
// A builder should not be reused after Build.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	handlers := make(map[reflect.Type]HandlerFunc, len(b.handlers))
	for t, h := range b.handlers {
		handlers[t] = h
	}
	return &Table{handlers: handlers}, nil
}

// Table maps event types to handlers. It is immutable and safe for
// concurrent use.
type Table struct {
	handlers map[reflect.Type]HandlerFunc
}

// Post invokes the handler registered for e's runtime type and returns its
// error. Events without a handler, and nil events, are ignored.
func (t *Table) Post(e Event) error {
	if e == nil {
		return nil
	}
	h, ok := t.handlers[reflect.TypeOf(e)]
	if !ok {
		return nil
	}
	return h(e)
}

// Accepts reports whether a handler exists for e's runtime type
func (t *Table) Accepts(e Event) bool {
	if e == nil {
		return false
	}
	_, ok := t.handlers[reflect.TypeOf(e)]
	return ok
}

// Len returns the number of registered handlers
func (t *Table) Len() int {
	return len(t.handlers)
}

// Types returns the handled event type names, sorted
func (t *Table) Types() []string {
	types := make([]string, 0, len(t.handlers))
	for typ := range t.handlers {
		types = append(types, typ.String())
	}
	sort.Strings(types)
	return types
}
