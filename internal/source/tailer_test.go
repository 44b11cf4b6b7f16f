package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miteshsondhi/swagger-stats/pkg/log"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}

func TestFileTailer_OnceFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.ndjson")
	writeFile(t, path, `{"id":"a","@timestamp":"2023-06-15T10:00:00Z"}
not json

{"id":"b","attrsint":{"n":12345678901234}}
{"id":"c"}`)

	tailer := NewFileTailer(path, TailerConfig{FromStart: true, Once: true}, log.NewNoopLogger())
	defer tailer.Close()

	var ids []string
	for {
		r, err := tailer.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		ids = append(ids, r.ID())
	}

	want := []string{"a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestFileTailer_MissingFile(t *testing.T) {
	tailer := NewFileTailer(filepath.Join(t.TempDir(), "absent.ndjson"), TailerConfig{Once: true}, log.NewNoopLogger())
	defer tailer.Close()

	if _, err := tailer.Next(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileTailer_FollowsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.ndjson")
	writeFile(t, path, `{"id":"old"}`+"\n")

	tailer := NewFileTailer(path, TailerConfig{PollInterval: 20 * time.Millisecond}, log.NewNoopLogger())
	defer tailer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		id  string
		err error
	}
	got := make(chan result, 1)
	go func() {
		r, err := tailer.Next(ctx)
		if err != nil {
			got <- result{err: err}
			return
		}
		got <- result{id: r.ID()}
	}()

	// Give the tailer time to open the file and seek to its end.
	time.Sleep(100 * time.Millisecond)
	appendFile(t, path, `{"id":"ne`)
	time.Sleep(50 * time.Millisecond)
	appendFile(t, path, `w"}`+"\n")

	select {
	case res := <-got:
		if res.err != nil {
			t.Fatalf("Next: %v", res.err)
		}
		if res.id != "new" {
			t.Errorf("id = %q, want new (existing content must be skipped)", res.id)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for appended record")
	}
}

func TestFileTailer_ContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.ndjson")
	writeFile(t, path, "")

	tailer := NewFileTailer(path, TailerConfig{PollInterval: 20 * time.Millisecond}, log.NewNoopLogger())
	defer tailer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := tailer.Next(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next error = %v, want deadline exceeded", err)
	}
}
