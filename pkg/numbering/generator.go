// Package numbering produces short human-readable document numbers such as
// "AB1234" and retries until one is free for its owner.
package numbering

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	minLength  = 3
	maxLength  = 8
	maxLetters = 3

	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	// DefaultMaxAttempts bounds Unique when no limit is configured.
	DefaultMaxAttempts = 100
)

// ErrExhausted is returned when every attempt collided with an existing number.
var ErrExhausted = errors.New("numbering: no free number found")

// Source supplies uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// ExistsFunc reports whether a number is already taken.
type ExistsFunc func(ctx context.Context, number string) (bool, error)

// Generator builds candidate numbers from a Source.
type Generator struct {
	src         Source
	maxAttempts int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// NewGenerator creates a generator. A nil source falls back to the
// math/rand/v2 global source, which is safe for concurrent use.
func NewGenerator(src Source, maxAttempts int) *Generator {
	if src == nil {
		src = globalSource{}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{src: src, maxAttempts: maxAttempts}
}

// Candidate returns one random number: 0-3 uppercase letters followed by at
// least one digit, 3 to 8 characters in total.
func (g *Generator) Candidate() string {
	length := minLength + g.src.IntN(maxLength-minLength+1)
	letterCount := min(g.src.IntN(maxLetters+1), length-1)

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < letterCount; i++ {
		b.WriteByte(letters[g.src.IntN(len(letters))])
	}
	for i := letterCount; i < length; i++ {
		b.WriteByte(digits[g.src.IntN(len(digits))])
	}
	return b.String()
}

// Unique draws candidates until exists reports one as free.
func (g *Generator) Unique(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := g.Candidate()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
