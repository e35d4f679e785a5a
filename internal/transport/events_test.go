package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStoreMonotoneIdentifiers(t *testing.T) {
	es := NewEventStore(100)
	e1 := es.StoreEvent("S", "m1")
	e2 := es.StoreEvent("S", "m2")
	assert.Less(t, e1, e2)
}

func TestReplayAfterReturnsOnlyNewer(t *testing.T) {
	es := NewEventStore(100)
	e1 := es.StoreEvent("S", "m1")
	es.StoreEvent("S", "m2")
	es.StoreEvent("S", "m3")

	replayed := es.ReplayAfter("S", e1)
	require.Len(t, replayed, 2)
	assert.Equal(t, "m2", replayed[0].Payload)
	assert.Equal(t, "m3", replayed[1].Payload)
}

func TestReplayAfterUnknownStreamIsEmpty(t *testing.T) {
	es := NewEventStore(100)
	assert.Empty(t, es.ReplayAfter("missing", 0))
}

func TestSessionLifecycle(t *testing.T) {
	r := NewSessionRegistry()
	s := r.Create()
	require.NotNil(t, r.Get(s.ID))
	assert.True(t, r.Destroy(s.ID))
	assert.Nil(t, r.Get(s.ID))
}
