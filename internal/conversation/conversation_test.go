package conversation

import (
	"fmt"
	"testing"
)

func TestAppendWithinCap(t *testing.T) {
	s := New(5)
	s.Append(Turn{Role: RoleUser, Content: "list files"})
	s.Append(Turn{Role: RoleAssistant, Content: "```bash\nls\n```"})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	turns := s.Snapshot()
	if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
		t.Errorf("unexpected roles: %v, %v", turns[0].Role, turns[1].Role)
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	s := New(3)
	for i := 0; i < 7; i++ {
		s.Append(Turn{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want cap 3", s.Len())
	}
	turns := s.Snapshot()
	if turns[0].Content != "turn 4" {
		t.Errorf("oldest retained = %q, want %q", turns[0].Content, "turn 4")
	}
	if turns[2].Content != "turn 6" {
		t.Errorf("newest = %q, want %q", turns[2].Content, "turn 6")
	}
}

func TestPinnedSystemTurnSurvivesEviction(t *testing.T) {
	s := New(3)
	s.PinSystem("you translate prompts into bash commands")

	for i := 0; i < 10; i++ {
		s.Append(Turn{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want cap 3", s.Len())
	}
	turns := s.Snapshot()
	if turns[0].Role != RoleSystem {
		t.Fatalf("turns[0].Role = %v, want system", turns[0].Role)
	}
	if turns[0].Content != "you translate prompts into bash commands" {
		t.Errorf("pinned content changed: %q", turns[0].Content)
	}
	if turns[1].Content != "turn 8" || turns[2].Content != "turn 9" {
		t.Errorf("rolling window wrong: %q, %q", turns[1].Content, turns[2].Content)
	}
}

func TestUnpinnedSystemTurnsAreEvictable(t *testing.T) {
	s := New(3)
	s.PinSystem("persona")
	s.Append(Turn{Role: RoleSystem, Content: "command exited with status 0"})
	s.Append(Turn{Role: RoleUser, Content: "next"})
	s.Append(Turn{Role: RoleUser, Content: "and another"})

	turns := s.Snapshot()
	if len(turns) != 3 {
		t.Fatalf("Len() = %d, want 3", len(turns))
	}
	// The observation note (unpinned system turn) was oldest and got evicted.
	if turns[0].Content != "persona" {
		t.Errorf("turns[0] = %q, want pinned persona", turns[0].Content)
	}
	if turns[1].Content != "next" {
		t.Errorf("turns[1] = %q, want %q", turns[1].Content, "next")
	}
}

func TestPinSystemReplacesExisting(t *testing.T) {
	s := New(4)
	s.PinSystem("first")
	s.Append(Turn{Role: RoleUser, Content: "hello"})
	s.PinSystem("second")

	turns := s.Snapshot()
	if len(turns) != 2 {
		t.Fatalf("Len() = %d, want 2", len(turns))
	}
	if turns[0].Content != "second" {
		t.Errorf("turns[0] = %q, want %q", turns[0].Content, "second")
	}
	if turns[1].Content != "hello" {
		t.Errorf("turns[1] = %q, want %q", turns[1].Content, "hello")
	}
}

func TestPinSystemOnFullState(t *testing.T) {
	s := New(2)
	s.Append(Turn{Role: RoleUser, Content: "a"})
	s.Append(Turn{Role: RoleAssistant, Content: "b"})
	s.PinSystem("late pin")

	turns := s.Snapshot()
	if len(turns) != 2 {
		t.Fatalf("Len() = %d, want cap 2", len(turns))
	}
	if turns[0].Content != "late pin" {
		t.Errorf("turns[0] = %q, want pinned turn", turns[0].Content)
	}
	if turns[1].Content != "b" {
		t.Errorf("turns[1] = %q, want newest turn %q", turns[1].Content, "b")
	}
}

func TestSnapshotImmutability(t *testing.T) {
	s := New(5)
	s.Append(Turn{Role: RoleUser, Content: "original"})

	snap := s.Snapshot()
	s.Append(Turn{Role: RoleAssistant, Content: "later"})

	if len(snap) != 1 {
		t.Fatalf("snapshot grew after later append: len = %d", len(snap))
	}
	if snap[0].Content != "original" {
		t.Errorf("snapshot content changed: %q", snap[0].Content)
	}

	// Mutating the snapshot must not leak back into live state.
	snap[0].Content = "tampered"
	if s.Snapshot()[0].Content != "original" {
		t.Error("mutating a snapshot changed live state")
	}
}

func TestCapNeverObservablyViolated(t *testing.T) {
	s := New(4)
	s.PinSystem("persona")
	for i := 0; i < 50; i++ {
		s.Append(Turn{Role: RoleUser, Content: fmt.Sprintf("%d", i)})
		if s.Len() > 4 {
			t.Fatalf("cap violated after append %d: Len() = %d", i, s.Len())
		}
	}
}

func TestTinyCapClamped(t *testing.T) {
	s := New(0)
	s.PinSystem("persona")
	s.Append(Turn{Role: RoleUser, Content: "a"})
	s.Append(Turn{Role: RoleUser, Content: "b"})

	turns := s.Snapshot()
	if len(turns) != 2 {
		t.Fatalf("Len() = %d, want clamped cap 2", len(turns))
	}
	if turns[0].Content != "persona" || turns[1].Content != "b" {
		t.Errorf("unexpected turns: %+v", turns)
	}
}
