package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndGet(t *testing.T) {
	d := New()
	d.Insert("com_A", []byte("id_A"))

	e, ok := d.Get("com_A")
	require.True(t, ok, "expected entry to exist")
	assert.Equal(t, []byte("id_A"), e.Identity)
}

func TestGetMissing(t *testing.T) {
	d := New()
	_, ok := d.Get("nope")
	assert.False(t, ok, "expected no entry")
}

func TestRemove(t *testing.T) {
	d := New()
	d.Insert("com_A", []byte("id_A"))
	d.Remove("com_A")
	_, ok := d.Get("com_A")
	assert.False(t, ok, "expected entry to be removed")
}

func TestTouchUpdatesLastSeen(t *testing.T) {
	clock := time.Unix(1000, 0)
	d := New()
	d.now = func() time.Time { return clock }
	d.Insert("com_A", []byte("id_A"))

	clock = clock.Add(5 * time.Second)
	d.Touch("com_A")

	e, ok := d.Get("com_A")
	require.True(t, ok)
	assert.Equal(t, &Entry{Identity: []byte("id_A"), LastSeen: clock}, e)
}

func TestTouchOfMissingEntryIsNoop(t *testing.T) {
	d := New()
	d.Touch("nope") // must not panic
}

func TestIdleSince(t *testing.T) {
	clock := time.Unix(1000, 0)
	d := New()
	d.now = func() time.Time { return clock }

	d.Insert("stale", []byte("id_stale"))
	clock = clock.Add(15 * time.Second)
	d.Insert("fresh", []byte("id_fresh"))

	idle := d.IdleSince(10 * time.Second)
	assert.ElementsMatch(t, []string{"stale"}, idle)
}

func TestLen(t *testing.T) {
	d := New()
	d.Insert("a", []byte("1"))
	d.Insert("b", []byte("2"))
	assert.Equal(t, 2, d.Len())
}
