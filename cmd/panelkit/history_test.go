package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/panelkit/internal/database"
	"github.com/nao1215/panelkit/internal/model"
)

func seedArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	export := &model.Export{
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Images: []model.ImageResult{
			{
				Filename: "1.png", Width: 100, Height: 100,
				Panels: []model.Panel{{X: 1, Y: 2, Width: 3, Height: 4, Path: "1 2, 4 6"}},
			},
			{Index: 1, Filename: "2.png", Width: 100, Height: 100, Panels: []model.Panel{}},
		},
	}
	if _, err := db.SaveExport(context.Background(), export); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestHistory(t *testing.T) {
	t.Parallel()

	dir := seedArchive(t)

	t.Run("lists exports", func(t *testing.T) {
		t.Parallel()
		out, _, err := runRoot(t, "", "history", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "2026-01-02 03:04:05") {
			t.Errorf("expected export timestamp, got:\n%s", out)
		}
	})

	t.Run("image history prints panels", func(t *testing.T) {
		t.Parallel()
		out, _, err := runRoot(t, "", "history", "1.png", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `"path": "1 2, 4 6"`) {
			t.Errorf("expected panel JSON, got:\n%s", out)
		}
	})

	t.Run("image without panels prints placeholder", func(t *testing.T) {
		t.Parallel()
		out, _, err := runRoot(t, "", "history", "2.png", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No panels plotted.") {
			t.Errorf("expected placeholder, got:\n%s", out)
		}
	})

	t.Run("unknown export id", func(t *testing.T) {
		t.Parallel()
		_, _, err := runRoot(t, "", "history", "--id", "999", "--db-dir", dir)
		if err == nil {
			t.Error("expected error for unknown id")
		}
	})

	t.Run("missing archive", func(t *testing.T) {
		t.Parallel()
		_, _, err := runRoot(t, "", "history", "--db-dir", filepath.Join(t.TempDir(), "none"))
		if err == nil {
			t.Error("expected error for missing archive")
		}
	})
}
