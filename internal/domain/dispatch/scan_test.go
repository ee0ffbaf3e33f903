package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screenLike struct {
	a, b int
	last string
}

func (s *screenLike) HandleA(e eventA) error {
	s.a += e.N
	return nil
}

func (s *screenLike) HandleB(e eventB) {
	s.b++
	s.last = e.S
}

// Not a handler: no prefix
func (s *screenLike) Reset() {}

// Unexported methods are never seen by Scan
func (s *screenLike) handleC(e eventC) {}

type twoParams struct{}

func (twoParams) HandleA(e eventA, extra int) {}

type notAnEvent struct{}

func (notAnEvent) HandleString(s string) {}

type interfaceParam struct{}

func (interfaceParam) HandleAny(e Event) {}

type badResults struct{}

func (badResults) HandleA(e eventA) (int, error) { return 0, nil }

type duplicate struct{}

func (duplicate) HandleFirst(e eventA)  {}
func (duplicate) HandleSecond(e eventA) {}

type failing struct{}

func (failing) HandleA(e eventA) error { return errors.New("handler failed") }

func TestDiscover(t *testing.T) {
	s := &screenLike{}
	table, err := Discover(s)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())

	require.NoError(t, table.Post(eventA{N: 3}))
	require.NoError(t, table.Post(eventA{N: 4}))
	require.NoError(t, table.Post(eventB{S: "hello"}))
	require.NoError(t, table.Post(eventC{}))

	assert.Equal(t, 7, s.a)
	assert.Equal(t, 1, s.b)
	assert.Equal(t, "hello", s.last)
	assert.Equal(t, []string{"dispatch.eventA", "dispatch.eventB"}, table.Types())
}

func TestDiscoverBindsToInstance(t *testing.T) {
	first, second := &screenLike{}, &screenLike{}
	t1, err := Discover(first)
	require.NoError(t, err)
	_, err = Discover(second)
	require.NoError(t, err)

	require.NoError(t, t1.Post(eventA{N: 1}))

	assert.Equal(t, 1, first.a)
	assert.Equal(t, 0, second.a)
}

func TestDiscoverMalformed(t *testing.T) {
	tests := []struct {
		name  string
		owner any
		rule  Rule
	}{
		{name: "two parameters", owner: twoParams{}, rule: RuleArity},
		{name: "non event parameter", owner: notAnEvent{}, rule: RuleEventType},
		{name: "interface parameter", owner: interfaceParam{}, rule: RuleConcrete},
		{name: "extra results", owner: badResults{}, rule: RuleResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Discover(tt.owner)

			assert.Nil(t, table)
			require.ErrorIs(t, err, ErrMalformedHandler)

			var m *MalformedHandlerError
			require.True(t, errors.As(err, &m))
			assert.Equal(t, tt.rule, m.Rule)
			assert.Contains(t, m.Error(), m.Handler)
		})
	}
}

func TestDiscoverDuplicate(t *testing.T) {
	_, err := Discover(duplicate{})
	assert.ErrorIs(t, err, ErrDuplicateHandler)
}

func TestDiscoverReturnsHandlerError(t *testing.T) {
	table, err := Discover(failing{})
	require.NoError(t, err)

	assert.EqualError(t, table.Post(eventA{}), "handler failed")
}

func TestScanCombinesWithExplicit(t *testing.T) {
	s := &screenLike{}
	var cHits int

	b := NewBuilder().Scan(s)
	On(b, func(eventC) error {
		cHits++
		return nil
	})
	table, err := b.Build()
	require.NoError(t, err)

	require.NoError(t, table.Post(eventC{}))
	assert.Equal(t, 1, cHits)
	assert.Equal(t, 3, table.Len())
}

func TestScanNil(t *testing.T) {
	table, err := NewBuilder().Scan(nil).Build()
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

type lookalikes struct{ got int }

func (*lookalikes) Handle(e eventA)        {}
func (*lookalikes) Handles(e Event) bool   { return true }
func (*lookalikes) Handler(e Event) string { return "" }
func (l *lookalikes) HandleA(e eventA)     { l.got += e.N }

func TestScanRequiresUpperCaseAfterPrefix(t *testing.T) {
	l := &lookalikes{}
	table, err := Discover(l)
	require.NoError(t, err)

	assert.Equal(t, []string{"dispatch.eventA"}, table.Types())
	require.NoError(t, table.Post(eventA{N: 2}))
	assert.Equal(t, 2, l.got)
}
