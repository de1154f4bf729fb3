package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier for safety and correctness.
// Identifiers arrive from untrusted wire payloads, so the rules are
// intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// algorithmNameRegex matches valid registry names: lowercase words
// separated by single underscores or hyphens.
var algorithmNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*([_-][a-z0-9]+)*$`)

// ValidateAlgorithmName validates an algorithm registry name.
func ValidateAlgorithmName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidAlgorithm, "algorithm name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidAlgorithm, "algorithm name too long (max 64 characters)")
	}

	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidAlgorithm, "algorithm names must be lowercase: %q", name)
	}

	if !algorithmNameRegex.MatchString(name) {
		return New(ErrCodeInvalidAlgorithm, "invalid algorithm name: %q", name)
	}

	return nil
}

// ValidateWeight validates an edge weight. Weights must be finite;
// NaN and infinities poison every downstream accumulation.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) {
		return New(ErrCodeInvalidInput, "edge weight cannot be NaN")
	}
	if math.IsInf(w, 0) {
		return New(ErrCodeInvalidInput, "edge weight cannot be infinite")
	}
	return nil
}

// ValidateScale validates a layout scale factor. Scale must be a
// positive finite number.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return New(ErrCodeInvalidOptions, "scale must be finite")
	}
	if scale <= 0 {
		return New(ErrCodeInvalidOptions, "scale must be positive, got %g", scale)
	}
	return nil
}

// ValidateIterations validates an iteration budget for iterative
// algorithms. Budgets must be positive and bounded to guarantee
// termination in reasonable time.
func ValidateIterations(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidOptions, "iterations must be positive, got %d", n)
	}

	const maxIterations = 1_000_000
	if n > maxIterations {
		return New(ErrCodeInvalidOptions, "iterations too large (max %d)", maxIterations)
	}

	return nil
}

// ValidateTolerance validates a convergence tolerance. Tolerances must
// be positive finite numbers.
func ValidateTolerance(tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return New(ErrCodeInvalidOptions, "tolerance must be finite")
	}
	if tol <= 0 {
		return New(ErrCodeInvalidOptions, "tolerance must be positive, got %g", tol)
	}
	return nil
}
