package sqlite

import (
	"context"
	"reflect"
	"testing"

	"graphlens/internal/domain"
	"graphlens/internal/repository"
)

// newTestStore creates an in-memory SQLite store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func sampleDataset(name string) *repository.Dataset {
	return &repository.Dataset{
		Name: name,
		Nodes: []domain.NodeDatum{
			{ID: "A", Value: 10},
			{ID: "B", Value: 20},
			{ID: "C", Value: 15},
		},
		Links: []domain.LinkDatum{
			{Source: "A", Target: "B", Value: 5},
			{Source: "B", Target: "C", Value: -3},
		},
	}
}

func TestSaveAndGetDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("round trips contents", func(t *testing.T) {
		ds := sampleDataset("correlations")
		assertNoError(t, store.SaveDataset(ctx, ds))

		got, err := store.GetDataset(ctx, "correlations")
		assertNoError(t, err)
		if got == nil {
			t.Fatal("expected dataset, got nil")
		}
		assertEqual(t, ds.Nodes, got.Nodes)
		assertEqual(t, ds.Links, got.Links)
		if got.UpdatedAt.IsZero() {
			t.Error("expected updated_at set")
		}
	})

	t.Run("preserves input order", func(t *testing.T) {
		ds := sampleDataset("ordered")
		assertNoError(t, store.SaveDataset(ctx, ds))

		got, err := store.GetDataset(ctx, "ordered")
		assertNoError(t, err)
		assertEqual(t, "A", got.Nodes[0].ID)
		assertEqual(t, "B", got.Nodes[1].ID)
		assertEqual(t, "C", got.Nodes[2].ID)
	})

	t.Run("missing dataset is nil without error", func(t *testing.T) {
		got, err := store.GetDataset(ctx, "missing")
		assertNoError(t, err)
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		if err := store.SaveDataset(ctx, &repository.Dataset{}); err == nil {
			t.Error("expected error for empty name")
		}
	})

	t.Run("save is an upsert", func(t *testing.T) {
		ds := sampleDataset("revised")
		assertNoError(t, store.SaveDataset(ctx, ds))

		ds.Nodes = ds.Nodes[:1]
		ds.Links = nil
		assertNoError(t, store.SaveDataset(ctx, ds))

		got, err := store.GetDataset(ctx, "revised")
		assertNoError(t, err)
		assertEqual(t, 1, len(got.Nodes))
		assertEqual(t, 0, len(got.Links))
	})
}

func TestListDatasets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		infos, err := store.ListDatasets(ctx)
		assertNoError(t, err)
		assertEqual(t, 0, len(infos))
	})

	t.Run("reports counts", func(t *testing.T) {
		assertNoError(t, store.SaveDataset(ctx, sampleDataset("first")))
		assertNoError(t, store.SaveDataset(ctx, &repository.Dataset{
			Name:  "second",
			Nodes: []domain.NodeDatum{{ID: "X", Value: 1}},
		}))

		infos, err := store.ListDatasets(ctx)
		assertNoError(t, err)
		assertEqual(t, 2, len(infos))

		byName := map[string]repository.DatasetInfo{}
		for _, info := range infos {
			byName[info.Name] = info
		}
		assertEqual(t, 3, byName["first"].NodeCount)
		assertEqual(t, 2, byName["first"].LinkCount)
		assertEqual(t, 1, byName["second"].NodeCount)
		assertEqual(t, 0, byName["second"].LinkCount)
	})
}

func TestDeleteDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assertNoError(t, store.SaveDataset(ctx, sampleDataset("doomed")))
	assertNoError(t, store.DeleteDataset(ctx, "doomed"))

	got, err := store.GetDataset(ctx, "doomed")
	assertNoError(t, err)
	if got != nil {
		t.Fatal("expected dataset gone")
	}

	// Deleting a missing dataset is a no-op.
	assertNoError(t, store.DeleteDataset(ctx, "doomed"))
}
