package tag

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/finnapple/opusgrab/internal/model"
)

// fakeFFmpeg pretends to rewrite files: it records arguments and creates
// the output path (the last argument) so the rename step can proceed.
type fakeFFmpeg struct {
	calls [][]string
	fail  bool
}

func (f *fakeFFmpeg) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.fail {
		return os.ErrPermission
	}
	out := args[len(args)-1]
	return os.WriteFile(out, []byte("rewritten"), 0644)
}

func newTestService(runner Runner) *Service {
	return NewService(runner, "ffmpeg", log.New(io.Discard))
}

func writeOpus(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("opus data"), 0644); err != nil {
		t.Fatalf("Failed to write opus file: %v", err)
	}
	return path
}

func TestBuildMetadataArgs(t *testing.T) {
	meta := model.TrackMetadata{
		Title:       "Song",
		Artist:      "Artist",
		Album:       "Album",
		TrackNumber: "3",
		ReleaseYear: "2020",
		Genre:       "Jazz",
	}

	args := BuildMetadataArgs(meta)
	expected := []string{
		"-metadata", "artist=Artist",
		"-metadata", "title=Song",
		"-metadata", "album=Album",
		"-metadata", "track=3",
		"-metadata", "date=2020",
		"-metadata", "genre=Jazz",
	}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("BuildMetadataArgs = %v, expected %v", args, expected)
	}
}

func TestBuildMetadataArgs_OmitsEmpty(t *testing.T) {
	args := BuildMetadataArgs(model.TrackMetadata{Title: "Only Title"})
	expected := []string{"-metadata", "title=Only Title"}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("BuildMetadataArgs = %v, expected %v", args, expected)
	}

	if got := BuildMetadataArgs(model.TrackMetadata{}); len(got) != 0 {
		t.Errorf("BuildMetadataArgs(empty) = %v, expected none", got)
	}
}

func TestWriteTags(t *testing.T) {
	dir := t.TempDir()
	opusPath := writeOpus(t, dir, "Track.opus")

	ffmpeg := &fakeFFmpeg{}
	svc := newTestService(ffmpeg)

	meta := model.TrackMetadata{Title: "Track", Artist: "Someone"}
	if err := svc.WriteTags(context.Background(), opusPath, meta); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	if len(ffmpeg.calls) != 1 {
		t.Fatalf("expected 1 ffmpeg invocation, got %d", len(ffmpeg.calls))
	}
	call := strings.Join(ffmpeg.calls[0], " ")
	if !strings.Contains(call, "-c copy") || !strings.Contains(call, "-map_metadata 0") {
		t.Errorf("ffmpeg call missing stream copy args: %s", call)
	}
	if !strings.Contains(call, "title=Track") {
		t.Errorf("ffmpeg call missing metadata: %s", call)
	}

	// the temp file must have replaced the original
	data, err := os.ReadFile(opusPath)
	if err != nil {
		t.Fatalf("Failed to read rewritten file: %v", err)
	}
	if string(data) != "rewritten" {
		t.Error("original file was not replaced by the rewrite")
	}
	if _, err := os.Stat(strings.TrimSuffix(opusPath, ".opus") + tempSuffix); !os.IsNotExist(err) {
		t.Error("temp file left behind after successful rewrite")
	}
}

func TestWriteTags_NoMetadataIsNoop(t *testing.T) {
	dir := t.TempDir()
	opusPath := writeOpus(t, dir, "Track.opus")

	ffmpeg := &fakeFFmpeg{}
	svc := newTestService(ffmpeg)

	if err := svc.WriteTags(context.Background(), opusPath, model.TrackMetadata{}); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}
	if len(ffmpeg.calls) != 0 {
		t.Errorf("expected no ffmpeg invocation for empty metadata, got %d", len(ffmpeg.calls))
	}
}

func TestWriteTags_MissingFile(t *testing.T) {
	svc := newTestService(&fakeFFmpeg{})
	err := svc.WriteTags(context.Background(), filepath.Join(t.TempDir(), "gone.opus"), model.TrackMetadata{Title: "x"})
	if err == nil {
		t.Fatal("expected error for missing opus file, got nil")
	}
}

func TestEmbedCover_FFmpegFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	opusPath := writeOpus(t, dir, "Track.opus")
	coverPath, _ := writeTestPNG(t, dir, "Track.png", 4, 4)

	ffmpeg := &fakeFFmpeg{fail: true}
	svc := newTestService(ffmpeg)

	if err := svc.EmbedCover(context.Background(), opusPath, coverPath); err == nil {
		t.Fatal("expected embed failure, got nil")
	}

	data, err := os.ReadFile(opusPath)
	if err != nil {
		t.Fatalf("original file missing after failed embed: %v", err)
	}
	if string(data) != "opus data" {
		t.Error("original file modified despite ffmpeg failure")
	}
}

func TestEmbedFolder(t *testing.T) {
	dir := t.TempDir()
	writeOpus(t, dir, "One.opus")
	writeOpus(t, dir, "Two.opus")
	writeTestPNG(t, dir, "One.png", 4, 4)

	ffmpeg := &fakeFFmpeg{}
	svc := newTestService(ffmpeg)

	result, err := svc.EmbedFolder(context.Background(), dir)
	if err != nil {
		t.Fatalf("EmbedFolder failed: %v", err)
	}

	// One.opus has a matching cover; Two.opus picks it up via the
	// any-image-in-folder fallback.
	if result.Total != 2 {
		t.Errorf("Total = %d, expected 2", result.Total)
	}
	if result.Processed != 2 {
		t.Errorf("Processed = %d, expected 2", result.Processed)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, expected 0", result.Failed)
	}
}

func TestEmbedFolder_NoOpusFiles(t *testing.T) {
	svc := newTestService(&fakeFFmpeg{})
	if _, err := svc.EmbedFolder(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for folder without opus files, got nil")
	}
}
