// Package dispatch routes typed events to handlers by their runtime type.
//
// A Table is built once, when its owning object is constructed, and is
// read-only afterwards. Handlers are registered either explicitly:
//
//	b := dispatch.NewBuilder()
//	dispatch.On(b, func(e screen.MousePressed) error { ... })
//	table, err := b.Build()
//
// or discovered from exported methods named Handle* on the owner:
//
//	func (s *Sketch) HandleMousePressed(e screen.MousePressed) error { ... }
//	table, err := dispatch.Discover(s)
//
// Routing uses the exact dynamic type of the posted event, so an event held
// through the Event interface still reaches the handler registered for its
// concrete type. T and *T are different routing keys. Events without a
// handler are dropped silently.
//
// At most one handler exists per event type: a second registration for the
// same type makes Build fail.
package dispatch
