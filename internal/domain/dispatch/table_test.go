package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventA struct{ N int }
type eventB struct{ S string }
type eventC struct{}
type ptrEvent struct{ N int }

func (eventA) ImplementsEvent()    {}
func (eventB) ImplementsEvent()    {}
func (eventC) ImplementsEvent()    {}
func (*ptrEvent) ImplementsEvent() {}

// subEvent embeds eventA but is a distinct routing key
type subEvent struct{ eventA }

type recorder struct {
	calls []string
}

func (r *recorder) table(t *testing.T) *Table {
	t.Helper()
	b := NewBuilder()
	On(b, func(e eventA) error {
		r.calls = append(r.calls, "A")
		return nil
	})
	On(b, func(e eventB) error {
		r.calls = append(r.calls, "B:"+e.S)
		return nil
	})
	table, err := b.Build()
	require.NoError(t, err)
	return table
}

func TestPostRoutesByType(t *testing.T) {
	r := &recorder{}
	table := r.table(t)

	require.NoError(t, table.Post(eventA{N: 1}))
	assert.Equal(t, []string{"A"}, r.calls)

	require.NoError(t, table.Post(eventB{S: "x"}))
	assert.Equal(t, []string{"A", "B:x"}, r.calls)

	// Unhandled type is a silent no-op
	require.NoError(t, table.Post(eventC{}))
	assert.Equal(t, []string{"A", "B:x"}, r.calls)
}

func TestPostThroughInterfaceUsesRuntimeType(t *testing.T) {
	r := &recorder{}
	table := r.table(t)

	var e Event = eventB{S: "via-interface"}
	require.NoError(t, table.Post(e))

	assert.Equal(t, []string{"B:via-interface"}, r.calls)
}

func TestPostExactTypeOnly(t *testing.T) {
	r := &recorder{}
	table := r.table(t)

	require.NoError(t, table.Post(subEvent{}))
	require.NoError(t, table.Post(nil))

	assert.Empty(t, r.calls)
	assert.False(t, table.Accepts(subEvent{}))
	assert.False(t, table.Accepts(nil))
	assert.True(t, table.Accepts(eventA{}))
}

func TestPointerAndValueAreDistinct(t *testing.T) {
	var got int
	b := NewBuilder()
	On(b, func(e *ptrEvent) error {
		got = e.N
		return nil
	})
	table, err := b.Build()
	require.NoError(t, err)

	require.NoError(t, table.Post(&ptrEvent{N: 7}))
	assert.Equal(t, 7, got)
}

func TestHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	b := NewBuilder()
	On(b, func(eventA) error { return boom })
	table, err := b.Build()
	require.NoError(t, err)

	assert.ErrorIs(t, table.Post(eventA{}), boom)
}

func TestHandlerPanicIsNotRecovered(t *testing.T) {
	b := NewBuilder()
	On(b, func(eventA) error { panic("handler bug") })
	table, err := b.Build()
	require.NoError(t, err)

	assert.Panics(t, func() { _ = table.Post(eventA{}) })
}

func TestDuplicateHandlerRejected(t *testing.T) {
	b := NewBuilder()
	On(b, func(eventA) error { return nil })
	On(b, func(eventA) error { return nil })

	table, err := b.Build()

	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrDuplicateHandler)
}

func TestMalformedExplicitHandlers(t *testing.T) {
	b := NewBuilder()
	On[eventA](b, nil)
	On(b, func(Event) error { return nil })

	table, err := b.Build()
	require.Error(t, err)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrMalformedHandler)

	var rules []Rule
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var m *MalformedHandlerError
		require.True(t, errors.As(e, &m))
		rules = append(rules, m.Rule)
	}
	assert.Equal(t, []Rule{RuleNilHandler, RuleConcrete}, rules)
}

func TestTableIntrospection(t *testing.T) {
	r := &recorder{}
	table := r.table(t)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"dispatch.eventA", "dispatch.eventB"}, table.Types())
}

func TestEmptyTable(t *testing.T) {
	table, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, 0, table.Len())
	assert.NoError(t, table.Post(eventA{}))
}
