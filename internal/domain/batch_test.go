package domain

import (
	"strings"
	"testing"
)

func TestBatch_AddWritesActionAndDocument(t *testing.T) {
	b := NewBatch()
	if err := b.Add("api-2023.06.15", Record{"id": "r1", "path": "/v1/users"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	want := `{"index":{"_index":"api-2023.06.15","_type":"api","_id":"r1"}}` + "\n" +
		`{"id":"r1","path":"/v1/users"}` + "\n"
	if got := string(b.Bytes()); got != want {
		t.Errorf("payload =\n%s\nwant\n%s", got, want)
	}
	if b.Count() != 1 {
		t.Errorf("Count = %d, want 1", b.Count())
	}
	if b.Len() != len(want) {
		t.Errorf("Len = %d, want %d", b.Len(), len(want))
	}
}

func TestBatch_TakeResets(t *testing.T) {
	b := NewBatch()
	for i := 0; i < 3; i++ {
		if err := b.Add("api-x", Record{"id": "r"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	payload, n := b.Take()
	if n != 3 {
		t.Errorf("Take count = %d, want 3", n)
	}
	if got := strings.Count(string(payload), "\n"); got != 6 {
		t.Errorf("payload has %d lines, want 6", got)
	}
	if !b.Empty() || b.Len() != 0 {
		t.Errorf("batch not reset: count=%d len=%d", b.Count(), b.Len())
	}

	// The snapshot must not change when the batch is refilled.
	before := string(payload)
	_ = b.Add("api-y", Record{"id": "other"})
	if string(payload) != before {
		t.Error("snapshot aliased the live buffer")
	}
}

func TestBatch_AddUnencodable(t *testing.T) {
	b := NewBatch()
	err := b.Add("api-x", Record{"id": "r", "bad": make(chan int)})
	if err == nil {
		t.Fatal("expected error for channel value")
	}
	if !b.Empty() || b.Len() != 0 {
		t.Error("batch mutated by a failed Add")
	}
}
