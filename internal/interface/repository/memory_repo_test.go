package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
)

func TestMemoryOverlayCache_TTL(t *testing.T) {
	cache := NewMemoryOverlayCache()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	overlay := entity.Overlay{entity.FieldPengajuanFull20DC: 4}
	if err := cache.Set(ctx, 1, overlay, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set(ctx, 2, overlay, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// the cache holds its own copy
	overlay[entity.FieldPengajuanFull20DC] = 99

	got, ok, _ := cache.Get(ctx, 1)
	if !ok || got[entity.FieldPengajuanFull20DC] != 4 {
		t.Errorf("Expected cached 4, got %+v (%v)", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, 1); ok {
		t.Error("Expected overlay 1 to expire")
	}
	if _, ok, _ := cache.Get(ctx, 2); !ok {
		t.Error("Expected overlay without ttl to be kept")
	}

	if err := cache.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, 2); ok {
		t.Error("Expected deleted overlay to be gone")
	}
}

func TestMemorySubmissionRepository_Recent(t *testing.T) {
	repo := NewMemorySubmissionRepository()
	ctx := context.Background()

	for i, stage := range []entity.Stage{entity.StageBongkaran, entity.StagePengajuan, entity.StageAccPengajuan} {
		s := &entity.StageSubmission{RecordID: 7, Stage: stage, Status: entity.SubmissionSucceeded}
		if err := repo.Record(ctx, s); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if s.ID != uint(i+1) {
			t.Errorf("Expected id %d, got %d", i+1, s.ID)
		}
	}
	repo.Record(ctx, &entity.StageSubmission{RecordID: 8, Stage: entity.StageBongkaran})

	recent, err := repo.Recent(ctx, 7, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 submissions, got %d", len(recent))
	}
	if recent[0].Stage != entity.StageAccPengajuan || recent[1].Stage != entity.StagePengajuan {
		t.Errorf("Expected newest first, got %s, %s", recent[0].Stage, recent[1].Stage)
	}

	if recent, _ := repo.Recent(ctx, 99, 10); len(recent) != 0 {
		t.Errorf("Expected no submissions for unknown record, got %d", len(recent))
	}
}

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	if _, err := repo.Load(ctx, "default"); err != repository.ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	if err := repo.Save(ctx, &entity.StoredSession{Name: "default", Email: "a@b.c"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	stored, err := repo.Load(ctx, "default")
	if err != nil || stored.Email != "a@b.c" {
		t.Errorf("Unexpected stored session %+v (%v)", stored, err)
	}

	repo.Delete(ctx, "default")
	if _, err := repo.Load(ctx, "default"); err != repository.ErrSessionNotFound {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
}
