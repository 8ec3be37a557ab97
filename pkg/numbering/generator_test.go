package numbering

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shape = regexp.MustCompile(`^[A-Z]{0,3}[0-9]+$`)

// scripted returns queued values, then zeros.
type scripted struct{ values []int }

func (s *scripted) IntN(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

func TestCandidate_Shape(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(1, 2)), 0)

	for i := 0; i < 2000; i++ {
		n := g.Candidate()
		assert.GreaterOrEqual(t, len(n), 3)
		assert.LessOrEqual(t, len(n), 8)
		assert.Regexp(t, shape, n)
	}
}

func TestCandidate_Scripted(t *testing.T) {
	// length 3+3=6, two letters (A, B), then digits 1..4
	g := NewGenerator(&scripted{values: []int{3, 2, 0, 1, 1, 2, 3, 4}}, 0)

	assert.Equal(t, "AB1234", g.Candidate())
}

func TestCandidate_AllDigitsWhenNoLetters(t *testing.T) {
	g := NewGenerator(&scripted{values: []int{0, 0, 7, 8, 9}}, 0)

	assert.Equal(t, "789", g.Candidate())
}

func TestCandidate_ShortNumberKeepsADigit(t *testing.T) {
	// length 3 with three letters requested: only two letters fit before the digit
	g := NewGenerator(&scripted{values: []int{0, 3, 2, 1, 5}}, 0)

	n := g.Candidate()
	assert.Equal(t, "CB5", n)
	assert.Regexp(t, shape, n)
}

func TestUnique_RetriesOnCollision(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(7, 7)), 10)
	taken := map[string]bool{}
	calls := 0

	n, err := g.Unique(context.Background(), func(_ context.Context, number string) (bool, error) {
		calls++
		if calls < 3 {
			taken[number] = true
			return true, nil
		}
		return taken[number], nil
	})

	require.NoError(t, err)
	assert.False(t, taken[n])
	assert.GreaterOrEqual(t, calls, 3)
}

func TestUnique_Exhausted(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(3, 4)), 5)
	calls := 0

	_, err := g.Unique(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 5, calls)
}

func TestUnique_PropagatesLookupError(t *testing.T) {
	g := NewGenerator(nil, 0)
	boom := errors.New("db down")

	_, err := g.Unique(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestUnique_CancelledContext(t *testing.T) {
	g := NewGenerator(nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Unique(ctx, func(context.Context, string) (bool, error) { return false, nil })

	assert.ErrorIs(t, err, context.Canceled)
}
