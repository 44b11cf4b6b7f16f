package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BulkAction is the metadata line that precedes each document in a bulk
// request. Field order is fixed by the struct so the line is byte-stable.
type BulkAction struct {
	Index BulkTarget `json:"index"`
}

// BulkTarget names where a document goes.
type BulkTarget struct {
	Index string `json:"_index"`
	Type  string `json:"_type"`
	ID    string `json:"_id"`
}

// Batch accumulates newline-delimited action/document pairs ready to be
// posted to a _bulk endpoint.
type Batch struct {
	buf   bytes.Buffer
	count int
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Add encodes r under index and appends both lines. The batch is left
// untouched when r cannot be encoded.
func (b *Batch) Add(index string, r Record) error {
	meta, err := json.Marshal(BulkAction{Index: BulkTarget{Index: index, Type: DocumentType, ID: r.ID()}})
	if err != nil {
		return err
	}
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnencodable, err)
	}

	b.buf.Grow(len(meta) + len(doc) + 2)
	b.buf.Write(meta)
	b.buf.WriteByte('\n')
	b.buf.Write(doc)
	b.buf.WriteByte('\n')
	b.count++
	return nil
}

// Count returns the number of records in the batch.
func (b *Batch) Count() int {
	return b.count
}

// Len returns the payload size in bytes.
func (b *Batch) Len() int {
	return b.buf.Len()
}

// Empty reports whether the batch holds no records.
func (b *Batch) Empty() bool {
	return b.count == 0
}

// Bytes returns the current payload. The slice aliases the batch and is
// only valid until the next Add or Take.
func (b *Batch) Bytes() []byte {
	return b.buf.Bytes()
}

// Take returns a copy of the payload with its record count and resets the
// batch, so the copy stays valid while new records are added.
func (b *Batch) Take() ([]byte, int) {
	payload := bytes.Clone(b.buf.Bytes())
	n := b.count
	b.Reset()
	return payload, n
}

// Reset clears the batch for reuse.
func (b *Batch) Reset() {
	b.buf.Reset()
	b.count = 0
}
