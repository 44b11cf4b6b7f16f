package emitter

import "github.com/miteshsondhi/swagger-stats/internal/domain"

// Errors surfaced by Initialize and Close.
var (
	ErrInvalidConfig      = domain.ErrInvalidConfig
	ErrAlreadyInitialized = domain.ErrAlreadyInitialized
	ErrShutdownTimeout    = domain.ErrShutdownTimeout
)
