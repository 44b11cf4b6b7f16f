package emitter_test

import (
	"context"
	"fmt"
	"time"

	"github.com/miteshsondhi/swagger-stats/pkg/emitter"
)

// ExampleNew shows the default, disabled deployment: without an endpoint
// every call is a no-op.
func ExampleNew() {
	e := emitter.New()
	if err := e.Initialize(emitter.Config{}); err != nil {
		fmt.Printf("initialize: %v\n", err)
		return
	}

	e.ProcessRecord(emitter.Record{
		"id":         "4f1c",
		"@timestamp": "2023-06-15T10:00:00Z",
		"attrs":      map[string]any{"tenant": 42},
	})
	e.Tick(time.Now(), time.Second)

	fmt.Println("enabled:", e.Enabled())
	fmt.Println("buffered:", e.Buffered())

	_ = e.Close(context.Background())

	// Output:
	// enabled: false
	// buffered: 0
}
