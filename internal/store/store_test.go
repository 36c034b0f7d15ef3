package store_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"teamtasks/internal/domain"
	"teamtasks/internal/store"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	st := store.New(t.TempDir())

	p := domain.Project{
		Name:      "api",
		Mode:      domain.ModeDAG,
		Goal:      "ship v2",
		CreatedAt: "2024-01-01T00:00:00Z",
		DAG: &domain.DAGState{Tasks: []domain.Task{
			domain.NewTask("schema", "", "design the schema", nil),
			domain.NewTask("handlers", "backend", "", []string{"schema"}),
		}},
	}
	if err := st.Save("api", p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Load("api")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestLoadNotFound(t *testing.T) {
	st := store.New(t.TempDir())
	_, err := st.Load("ghost")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	st := store.New(t.TempDir())
	if st.Exists("p") {
		t.Fatal("exists before save")
	}
	if err := st.Save("p", domain.Project{Name: "p", Mode: domain.ModeDAG}); err != nil {
		t.Fatal(err)
	}
	if !st.Exists("p") {
		t.Fatal("missing after save")
	}
}

func TestSaveReplacesRecord(t *testing.T) {
	st := store.New(t.TempDir())
	p := domain.Project{Name: "p", Mode: domain.ModeLinear, Linear: &domain.LinearState{
		Stages: []domain.Stage{domain.NewStage("x", "", "")},
	}}
	if err := st.Save("p", p); err != nil {
		t.Fatal(err)
	}
	p.Linear.Stages[0].Status = domain.StatusDone
	p.Linear.CurrentStage = 1
	if err := st.Save("p", p); err != nil {
		t.Fatal(err)
	}
	got, err := st.Load("p")
	if err != nil {
		t.Fatal(err)
	}
	if got.Linear.CurrentStage != 1 || got.Linear.Stages[0].Status != domain.StatusDone {
		t.Fatalf("stale record: %+v", got.Linear)
	}
}

func TestListSorted(t *testing.T) {
	st := store.New(t.TempDir())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := st.Save(name, domain.Project{Name: name, Mode: domain.ModeDAG}); err != nil {
			t.Fatal(err)
		}
	}
	names, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("list = %v, want %v", names, want)
	}
}

func TestListMissingRoot(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "never-created"))
	names, err := st.List()
	if err != nil {
		t.Fatalf("missing root: %v", err)
	}
	if names != nil {
		t.Fatalf("list = %v, want empty", names)
	}
}
