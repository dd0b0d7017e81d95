package state

import "github.com/google/uuid"

type ChangeKind string

const (
	ChangeLoaded        ChangeKind = "loaded"
	ChangeTabCreated    ChangeKind = "tab.create"
	ChangeTabRenamed    ChangeKind = "tab.rename"
	ChangeTabDeleted    ChangeKind = "tab.delete"
	ChangeTabSelected   ChangeKind = "tab.select"
	ChangeEditing       ChangeKind = "tab.editing"
	ChangeRowAdded      ChangeKind = "row.add"
	ChangeRowUpdated    ChangeKind = "row.update"
	ChangeRowDeleted    ChangeKind = "row.delete"
	ChangeRowToggled    ChangeKind = "row.toggle"
	ChangeRowsCollapsed ChangeKind = "row.collapseAll"
)

// Change describes one mutation. TabID and RowID are uuid.Nil when they don't apply.
type Change struct {
	Kind  ChangeKind
	TabID uuid.UUID
	RowID uuid.UUID
}

type subscriber struct {
	id int
	fn func(Change)
}

// Subscribe registers fn to run after every mutation, on the caller's goroutine,
// in registration order. The returned func removes the subscription.
func (s *AppState) Subscribe(fn func(Change)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *AppState) notify(c Change) {
	// Snapshot so a subscriber can unsubscribe from inside its callback.
	subs := append([]subscriber(nil), s.subs...)
	for _, sub := range subs {
		s.safeCall(c, sub.fn)
	}
}

// safeCall keeps one failing subscriber from starving the rest.
func (s *AppState) safeCall(c Change, fn func(Change)) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("subscriber panicked", "change", c.Kind, "panic", r)
		}
	}()
	fn(c)
}
