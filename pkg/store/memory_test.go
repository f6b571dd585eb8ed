package store

import (
	"context"
	"testing"
	"time"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

func TestMemoryStoreSave(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	c := &Corpus{
		Name: "Lakota texts",
		Raw: corpus.RawGraph{
			Nodes: []corpus.RawNode{{ID: "t1", Type: "Text"}, {ID: "w1", Type: "Word"}},
			Edges: []corpus.RawEdge{{Source: "t1", Target: "w1"}},
		},
	}
	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if c.ID == "" {
		t.Error("Save did not assign an ID")
	}
	if c.NodeCount != 2 || c.EdgeCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", c.NodeCount, c.EdgeCount)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Lakota texts" || len(got.Raw.Nodes) != 2 {
		t.Errorf("Get = %q with %d nodes", got.Name, len(got.Raw.Nodes))
	}
}

func TestMemoryStoreSaveNil(t *testing.T) {
	err := NewMemoryStore().Save(context.Background(), nil)
	if !cgerrors.Is(err, cgerrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestMemoryStoreUpdatePreservesCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	c := &Corpus{ID: "fixed", Name: "v1"}
	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	created := c.CreatedAt

	time.Sleep(5 * time.Millisecond)
	update := &Corpus{ID: "fixed", Name: "v2"}
	if err := s.Save(ctx, update); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, _ := s.Get(ctx, "fixed")
	if got.Name != "v2" {
		t.Errorf("Name = %q, want v2", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: %v -> %v", created, got.CreatedAt)
	}
	if !got.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, created)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "nope")
	if !cgerrors.Is(err, cgerrors.ErrCodeCorpusNotFound) {
		t.Fatalf("err = %v, want CORPUS_NOT_FOUND", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := &Corpus{ID: "old", Name: "first", CreatedAt: time.Now().Add(-time.Hour)}
	recent := &Corpus{ID: "recent", Name: "second"}
	if err := s.Save(ctx, old); err != nil {
		t.Fatalf("Save old: %v", err)
	}
	if err := s.Save(ctx, recent); err != nil {
		t.Fatalf("Save recent: %v", err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "recent" || got[1].ID != "old" {
		t.Errorf("order = %s,%s, want recent,old", got[0].ID, got[1].ID)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	c := &Corpus{ID: "x"}
	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "x"); !cgerrors.Is(err, cgerrors.ErrCodeCorpusNotFound) {
		t.Errorf("Get after delete = %v, want CORPUS_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "x"); !cgerrors.Is(err, cgerrors.ErrCodeCorpusNotFound) {
		t.Errorf("second Delete = %v, want CORPUS_NOT_FOUND", err)
	}
}
