// Package conversation holds the bounded turn history threaded through
// every completion request.
package conversation

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one role-tagged message in a conversation.
// Immutable once appended; ordering is chronological.
type Turn struct {
	Role    Role
	Content string
}

// State owns an ordered sequence of turns, capped at a configured maximum.
// When the cap would be exceeded, the oldest unpinned turn is evicted before
// the new turn is appended, so the cap is never observably violated. A system
// turn installed with PinSystem occupies index 0 and is never evicted.
//
// State is not safe for concurrent use. Each session owns exactly one State
// and rounds run strictly sequentially.
type State struct {
	turns    []Turn
	maxTurns int
	pinned   bool
}

// New creates an empty State capped at maxTurns. A cap below 2 cannot hold a
// pinned system turn plus any exchange, so it is raised to 2.
func New(maxTurns int) *State {
	if maxTurns < 2 {
		maxTurns = 2
	}
	return &State{
		turns:    make([]Turn, 0, maxTurns),
		maxTurns: maxTurns,
	}
}

// PinSystem installs content as the pinned system turn at index 0, replacing
// a previously pinned turn. The pinned turn counts toward the cap.
func (s *State) PinSystem(content string) {
	t := Turn{Role: RoleSystem, Content: content}
	if s.pinned {
		s.turns[0] = t
		return
	}
	s.turns = append([]Turn{t}, s.turns...)
	s.pinned = true
	s.evictOverflow()
}

// Append adds a turn to the end of the history, evicting the oldest unpinned
// turn first if the cap would be exceeded.
func (s *State) Append(t Turn) {
	if len(s.turns) >= s.maxTurns {
		s.evictOldest()
	}
	s.turns = append(s.turns, t)
}

// Snapshot returns a copy of the current history. Later mutation of the
// State does not change a snapshot already handed to an in-flight request.
func (s *State) Snapshot() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns currently held, pinned turn included.
func (s *State) Len() int {
	return len(s.turns)
}

// evictOldest removes the oldest unpinned turn.
func (s *State) evictOldest() {
	start := 0
	if s.pinned {
		start = 1
	}
	if start >= len(s.turns) {
		return
	}
	s.turns = append(s.turns[:start], s.turns[start+1:]...)
}

// evictOverflow trims unpinned turns until the cap holds again.
func (s *State) evictOverflow() {
	for len(s.turns) > s.maxTurns {
		before := len(s.turns)
		s.evictOldest()
		if len(s.turns) == before {
			return
		}
	}
}
