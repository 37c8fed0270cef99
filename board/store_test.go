package board

import (
	"testing"

	"project-board/domain"
)

func TestAddNotifiesEveryListenerOnce(t *testing.T) {
	s := New()
	const n = 3
	calls := make([]int, n)
	snaps := make([][]domain.Project, n)
	order := []int{}
	for i := 0; i < n; i++ {
		i := i
		s.AddListener(func(ps []domain.Project) {
			calls[i]++
			snaps[i] = ps
			order = append(order, i)
		})
	}

	p := s.Add("t1", "d1", 3)

	if p.ID == "" {
		t.Fatal("expected a generated id")
	}
	if p.Status != domain.StatusActive {
		t.Fatalf("new project status = %q, want %q", p.Status, domain.StatusActive)
	}
	for i := 0; i < n; i++ {
		if calls[i] != 1 {
			t.Fatalf("listener %d called %d times, want 1", i, calls[i])
		}
		if len(snaps[i]) != 1 || snaps[i][0].ID != p.ID {
			t.Fatalf("listener %d snapshot: %+v", i, snaps[i])
		}
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("listeners ran out of registration order: %v", order)
		}
	}
}

func TestAddGeneratesDistinctIDs(t *testing.T) {
	s := New()
	a := s.Add("t1", "d1", 1)
	b := s.Add("t2", "d2", 2)
	if a.ID == b.ID {
		t.Fatalf("ids collide: %q", a.ID)
	}
	got := s.Projects()
	if len(got) != 2 || got[0].Title != "t1" || got[1].Title != "t2" {
		t.Fatalf("insertion order not preserved: %+v", got)
	}
}

func TestMoveChangesStatusAndNotifies(t *testing.T) {
	s := New()
	p := s.Add("t1", "d1", 3)
	var notifications int
	var last []domain.Project
	s.AddListener(func(ps []domain.Project) {
		notifications++
		last = ps
	})

	s.Move(p.ID, domain.StatusFinished)

	if notifications != 1 {
		t.Fatalf("expected 1 notification, got %d", notifications)
	}
	if last[0].Status != domain.StatusFinished {
		t.Fatalf("snapshot status = %q, want finished", last[0].Status)
	}
	if got := s.Projects(); got[0].Status != domain.StatusFinished {
		t.Fatalf("store status = %q, want finished", got[0].Status)
	}
}

func TestMoveToCurrentStatusIsSilent(t *testing.T) {
	s := New()
	p := s.Add("t1", "d1", 3)
	var notifications int
	s.AddListener(func([]domain.Project) { notifications++ })

	s.Move(p.ID, domain.StatusActive)

	if notifications != 0 {
		t.Fatalf("same-status move notified %d times", notifications)
	}
}

func TestMoveUnknownIDIsSilent(t *testing.T) {
	s := New()
	s.Add("t1", "d1", 3)
	var notifications int
	s.AddListener(func([]domain.Project) { notifications++ })

	s.Move("no-such-id", domain.StatusFinished)

	if notifications != 0 {
		t.Fatalf("unknown-id move notified %d times", notifications)
	}
	if got := s.Projects(); len(got) != 1 || got[0].Status != domain.StatusActive {
		t.Fatalf("sequence altered by unknown-id move: %+v", got)
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := New()
	var snaps [][]domain.Project
	s.AddListener(func(ps []domain.Project) { snaps = append(snaps, ps) })

	p := s.Add("t1", "d1", 3)
	s.Move(p.ID, domain.StatusFinished)

	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	snaps[0][0].Title = "mutated"
	snaps[0] = append(snaps[0], domain.Project{ID: "intruder"})

	if got := s.Projects(); got[0].Title != "t1" || len(got) != 1 {
		t.Fatalf("store corrupted through a snapshot: %+v", got)
	}
	if snaps[1][0].Title != "t1" {
		t.Fatalf("second snapshot affected by mutating the first: %+v", snaps[1])
	}
}

func TestProjectsReturnsCopy(t *testing.T) {
	s := New()
	s.Add("t1", "d1", 3)
	got := s.Projects()
	got[0].Title = "mutated"
	if again := s.Projects(); again[0].Title != "t1" {
		t.Fatalf("Projects returned the live sequence: %+v", again)
	}
}
