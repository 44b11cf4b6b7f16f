package ports

import "context"

// BulkWriter submits a bulk payload to the search backend.
type BulkWriter interface {
	// Bulk posts body to the _bulk endpoint. body is newline-delimited
	// action/document pairs and ends with a newline.
	Bulk(ctx context.Context, body []byte) error
}

// TemplateStore manages the index template that shapes the daily indices.
type TemplateStore interface {
	// TemplateExists reports whether a template called name is installed.
	TemplateExists(ctx context.Context, name string) (bool, error)

	// PutTemplate installs body as template name.
	PutTemplate(ctx context.Context, name string, body []byte) error
}

// Backend is everything the emitter needs from a search cluster.
type Backend interface {
	BulkWriter
	TemplateStore
}
