// Package directory implements the Coordinator's Component directory: an
// identity-to-name map with liveness timestamps. It is exclusively owned by
// the routing loop (pkg/coordinator) and deliberately holds no locks of its
// own — see the concurrency model in SPEC_FULL.md §5.
package directory

import "time"

// Entry is a signed-in Component: its durable transport identity and the
// last time it was heard from.
type Entry struct {
	Identity []byte
	LastSeen time.Time
}

// Directory maps short Component names (namespace stripped) to Entries.
type Directory struct {
	entries map[string]*Entry
	now     func() time.Time
}

// New constructs an empty Directory using wall-clock time.
func New() *Directory {
	return &Directory{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Get returns the entry for name, if any.
func (d *Directory) Get(name string) (*Entry, bool) {
	e, ok := d.entries[name]
	return e, ok
}

// Insert creates or idempotently refreshes the entry for name under
// identity. Callers are responsible for rejecting a sign-in where name is
// already bound to a different identity (see pkg/coordinator's check step);
// Insert itself always writes.
func (d *Directory) Insert(name string, identity []byte) {
	d.entries[name] = &Entry{
		Identity: append([]byte(nil), identity...),
		LastSeen: d.now(),
	}
}

// Touch refreshes LastSeen for an existing entry. It is a no-op if name is
// not present.
func (d *Directory) Touch(name string) {
	if e, ok := d.entries[name]; ok {
		e.LastSeen = d.now()
	}
}

// Remove deletes the entry for name, if present.
func (d *Directory) Remove(name string) {
	delete(d.entries, name)
}

// Len returns the number of signed-in Components.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Names returns every signed-in Component's short name, in no particular
// order.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	return names
}

// IdleSince returns the short names of every entry whose LastSeen is at
// least threshold older than now.
func (d *Directory) IdleSince(threshold time.Duration) []string {
	cutoff := d.now().Add(-threshold)
	var idle []string
	for name, e := range d.entries {
		if e.LastSeen.Before(cutoff) || e.LastSeen.Equal(cutoff) {
			idle = append(idle, name)
		}
	}
	return idle
}
