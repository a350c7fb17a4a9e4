package page

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ikulkarni/portfolio/internal/snippet"
	"github.com/ikulkarni/portfolio/internal/theme"
)

func newStore() *Store {
	return New(&snippet.DirLoader{FS: fstest.MapFS{
		"all_codes/1/dag.cpp": {Data: []byte("// topo sort")},
	}})
}

func TestExpandCollapseNotifies(t *testing.T) {
	s := newStore()
	var snaps []Snapshot
	unsub := s.Subscribe(func(snap Snapshot) { snaps = append(snaps, snap) })
	defer unsub()

	snap := s.ExpandCase(3, 2)
	if !snap.Cases.Expanded || snap.Cases.CaseID != 3 {
		t.Fatalf("snapshot after expand = %+v", snap.Cases)
	}
	if snap.ActiveSection != "cases" {
		t.Errorf("active section = %q, want cases", snap.ActiveSection)
	}

	req, ok := s.CollapseCase()
	if !ok || req.Index != 2 || req.Target != "case-card-2" {
		t.Errorf("collapse = %+v, %v", req, ok)
	}
	if len(snaps) != 2 {
		t.Fatalf("notifications = %d, want 2", len(snaps))
	}
	if snaps[1].Cases.Expanded {
		t.Error("second notification should be collapsed")
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := newStore()
	before := s.Snapshot()
	s.ExpandCase(1, 0)
	if before.Cases.Expanded {
		t.Error("earlier snapshot changed after a mutation")
	}
}

func TestOpenAndCloseCode(t *testing.T) {
	s := newStore()
	m := s.OpenCode(context.Background(), "all_codes/1/dag.cpp", "DAG")
	if !m.Open || m.Code != "// topo sort" {
		t.Fatalf("modal = %+v", m)
	}
	if got := s.Snapshot().Code.Title; got != "DAG" {
		t.Errorf("snapshot code title = %q", got)
	}

	m = s.OpenCode(context.Background(), "all_codes/9/missing.cpp", "Missing")
	if !m.Open || !strings.Contains(m.Code, "404") {
		t.Errorf("modal for missing listing = %+v", m)
	}

	if snap := s.CloseCode(); snap.Code.Open {
		t.Error("modal open after CloseCode")
	}
}

func TestThemeSubscription(t *testing.T) {
	s := newStore()
	tc := theme.New(&theme.MemoryStore{}, theme.Light)
	defer tc.Subscribe(s.SetTheme)()

	tc.Toggle()
	if got := s.Snapshot().Theme; got != theme.Dark {
		t.Errorf("store theme = %q, want dark", got)
	}
}

func TestSetActiveSection(t *testing.T) {
	s := newStore()
	if got := s.SetActiveSection("skills").ActiveSection; got != "skills" {
		t.Errorf("active = %q", got)
	}
	if got := s.SetActiveSection("bogus").ActiveSection; got != "skills" {
		t.Errorf("unknown id changed active to %q", got)
	}
}
