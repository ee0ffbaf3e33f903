package dispatch

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HandlerPrefix marks exported methods that Scan registers as handlers
const HandlerPrefix = "Handle"

var errorType = reflect.TypeFor[error]()

// Scan registers every exported method of owner named HandlerPrefix followed
// by an upper-case letter, such as HandleMousePressed. Each method must take exactly one concrete Event parameter
// and return nothing or an error; violations are reported by Build.
// Handlers are bound to owner.
func (b *Builder) Scan(owner any) *Builder {
	v := reflect.ValueOf(owner)
	if !v.IsValid() {
		return b
	}
	typ := v.Type()

	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		if !isHandlerName(m.Name) {
			continue
		}
		name := typ.String() + "." + m.Name
		bound := v.Method(i)
		ft := bound.Type()

		if ft.NumIn() != 1 {
			b.fail(&MalformedHandlerError{Handler: name, Rule: RuleArity})
			continue
		}
		param := ft.In(0)
		if !param.Implements(eventType) {
			b.fail(&MalformedHandlerError{Handler: name, Rule: RuleEventType})
			continue
		}
		if param.Kind() == reflect.Interface {
			b.fail(&MalformedHandlerError{Handler: name, Rule: RuleConcrete})
			continue
		}
		if !validResults(ft) {
			b.fail(&MalformedHandlerError{Handler: name, Rule: RuleResults})
			continue
		}

		b.add(param, name, bindMethod(bound, ft.NumOut() == 1))
	}
	return b
}

// Discover builds a table from owner's Handle* methods
func Discover(owner any) (*Table, error) {
	return NewBuilder().Scan(owner).Build()
}

func isHandlerName(name string) bool {
	rest, ok := strings.CutPrefix(name, HandlerPrefix)
	if !ok {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r)
}

func validResults(ft reflect.Type) bool {
	switch ft.NumOut() {
	case 0:
		return true
	case 1:
		return ft.Out(0) == errorType
	default:
		return false
	}
}

func bindMethod(method reflect.Value, returnsError bool) HandlerFunc {
	return func(e Event) error {
		out := method.Call([]reflect.Value{reflect.ValueOf(e)})
		if !returnsError || out[0].IsNil() {
			return nil
		}
		return out[0].Interface().(error)
	}
}
