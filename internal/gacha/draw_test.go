package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.False(t, got, "p=0 should never hit")

	got, err = Draw(1, NewSeededRNG(1))
	require.NoError(t, err)
	assert.True(t, got, "p=1 should always hit")

	_, err = Draw(-0.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
	_, err = Draw(1.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Draw(p, rng)
		require.NoError(t, err)
		if ok {
			hit++
		}
	}
	// should be around 0.3
	assert.InDelta(t, p, float64(hit)/float64(n), 0.01)
}

func TestIntNRange(t *testing.T) {
	for _, rng := range []RandomSource{DefaultRNG(), NewSeededRNG(7)} {
		for i := 0; i < 1000; i++ {
			v := rng.IntN(5)
			require.GreaterOrEqual(t, v, 0)
			require.Less(t, v, 5)
		}
	}
}
