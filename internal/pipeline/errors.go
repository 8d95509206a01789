package pipeline

import "github.com/rotisserie/eris"

// Sentinel errors callers branch on. Everything else the pipeline
// returns is an eris-wrapped internal failure.
var (
	// ErrInvalidInput marks source text too short or empty to score
	ErrInvalidInput = eris.New("invalid input")

	// ErrCorruptCache marks a stored artifact that exists but cannot be
	// decoded. The artifact is left in place for inspection.
	ErrCorruptCache = eris.New("corrupt cached artifact")
)

// IsInvalidInput reports whether err stems from unusable source text
func IsInvalidInput(err error) bool {
	return eris.Is(err, ErrInvalidInput)
}

// IsCorruptCache reports whether err stems from an undecodable artifact
func IsCorruptCache(err error) bool {
	return eris.Is(err, ErrCorruptCache)
}
