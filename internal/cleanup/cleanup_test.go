package cleanup

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func populate(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
}

func TestScanFolder(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, "Song A.opus", "Song B.opus", "Song A.jpg", "thumb.webp", "notes.txt")

	scan, err := ScanFolder(dir)
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	if !reflect.DeepEqual(scan.Opus, []string{"Song A.opus", "Song B.opus"}) {
		t.Errorf("Opus = %v", scan.Opus)
	}
	if !reflect.DeepEqual(scan.Images, []string{"Song A.jpg", "thumb.webp"}) {
		t.Errorf("Images = %v", scan.Images)
	}
}

func TestScanFolder_Missing(t *testing.T) {
	if _, err := ScanFolder(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing folder, got nil")
	}
}

func TestBuildPlan_Matching(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, "Song A.opus", "Song A.jpg", "Song A (Official).png", "unrelated.png")

	scan, err := ScanFolder(dir)
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	plan := BuildPlan(scan, ModeMatching)

	// "Song A (Official)" contains "Song A", so both images match
	if !reflect.DeepEqual(plan.Delete, []string{"Song A (Official).png", "Song A.jpg"}) {
		t.Errorf("Delete = %v", plan.Delete)
	}
	if !reflect.DeepEqual(plan.Keep, []string{"unrelated.png"}) {
		t.Errorf("Keep = %v", plan.Keep)
	}
}

func TestBuildPlan_All(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, "Song A.opus", "Song A.jpg", "unrelated.png")

	scan, err := ScanFolder(dir)
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	plan := BuildPlan(scan, ModeAll)
	if len(plan.Delete) != 2 || len(plan.Keep) != 0 {
		t.Errorf("ModeAll plan = delete %v keep %v", plan.Delete, plan.Keep)
	}
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, "Song A.opus", "Song A.jpg", "unrelated.png")

	scan, err := ScanFolder(dir)
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	result := Apply(BuildPlan(scan, ModeMatching))
	if result.Deleted != 1 {
		t.Errorf("Deleted = %d, expected 1", result.Deleted)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, expected none", result.Errors)
	}

	if _, err := os.Stat(filepath.Join(dir, "Song A.jpg")); !os.IsNotExist(err) {
		t.Error("matched image was not deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "unrelated.png")); err != nil {
		t.Error("unmatched image should have been kept")
	}
	if _, err := os.Stat(filepath.Join(dir, "Song A.opus")); err != nil {
		t.Error("opus file must never be deleted")
	}
}

func TestApply_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	plan := &Plan{Folder: dir, Delete: []string{"ghost.jpg"}}

	result := Apply(plan)
	if result.Deleted != 0 {
		t.Errorf("Deleted = %d, expected 0", result.Deleted)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, expected one error", result.Errors)
	}
}
