package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	sverrors "github.com/ha1tch/sqlview/pkg/errors"
)

func TestDirResolver_ResolvesExistingAsset(t *testing.T) {
	base := t.TempDir()
	scriptDir := filepath.Join(base, "scripts")
	if err := os.MkdirAll(scriptDir, 0755); err != nil {
		t.Fatalf("failed to create scripts dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scriptDir, "results.js"), []byte("// js"), 0644); err != nil {
		t.Fatalf("failed to write asset: %v", err)
	}

	uri, err := NewDirResolver(base).Resolve("scripts/results.js")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if !strings.HasPrefix(uri, "file://") {
		t.Errorf("expected file URI, got %q", uri)
	}
	if !strings.HasSuffix(uri, "/scripts/results.js") {
		t.Errorf("URI does not point at the asset: %q", uri)
	}
}

func TestDirResolver_MissingAsset(t *testing.T) {
	_, err := NewDirResolver(t.TempDir()).Resolve("scripts/missing.js")
	if err == nil {
		t.Fatal("expected error for missing asset")
	}
	if !sverrors.IsCode(err, sverrors.ErrCodeAssetNotFound) {
		t.Errorf("unexpected error code: %v", err)
	}
}

func TestDirResolver_EmptyPath(t *testing.T) {
	_, err := NewDirResolver(t.TempDir()).Resolve("")
	if err == nil {
		t.Fatal("expected error for empty asset path")
	}
	if !sverrors.IsCode(err, sverrors.ErrCodeConfigInvalid) {
		t.Errorf("unexpected error code: %v", err)
	}
}
