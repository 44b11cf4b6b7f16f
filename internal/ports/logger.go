package ports

import "github.com/miteshsondhi/swagger-stats/pkg/log"

// Logger is the structured logger the engine writes to.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors, re-exported so internal packages import one place.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Any      = log.Any
)
