package dtmf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// decodeMulawMagnitude approximates the magnitude a µ-law byte encodes,
// using the same expandTable the encoder's nearest-neighbor search is
// built from, to check the encode/decode law without reimplementing a
// full decoder.
func decodeMulawMagnitude(b byte) int {
	if b >= 128 {
		return expandTable[255-uint8(b)]
	}
	return expandTable[127-uint8(b)]
}

func TestEncodeMulawMonotoneInMagnitude(t *testing.T) {
	prev := -1
	for v := int32(0); v <= 32767; v += 137 {
		got := decodeMulawMagnitude(encodeMulaw(v))
		assert.GreaterOrEqual(t, got, prev, "decoded magnitude must be monotone nondecreasing in |x|")
		prev = got
	}
}

func TestEncodeMulawSignSymmetry(t *testing.T) {
	for v := int32(100); v <= 32000; v += 311 {
		pos := encodeMulaw(v)
		neg := encodeMulaw(-v)
		assert.Equal(t, decodeMulawMagnitude(pos), decodeMulawMagnitude(neg))
		assert.NotEqual(t, pos, neg, "positive and negative samples must not collide")
	}
}

func TestEncodeMulawClampsOutOfRange(t *testing.T) {
	assert.Equal(t, encodeMulaw(32767), encodeMulaw(100000))
	assert.Equal(t, encodeMulaw(-32767), encodeMulaw(-100000))
}

func TestSilenceIsConstantSentinel(t *testing.T) {
	out := Silence(160)
	assert.Len(t, out, 160)
	for _, b := range out {
		assert.Equal(t, SilenceSample, b)
	}
}

func TestGeneratorProducesRequestedLengthAndVaries(t *testing.T) {
	g := NewGenerator(Symbol5, 10)
	samples := g.Next(160)
	assert.Len(t, samples, 160)

	allSame := true
	for _, b := range samples {
		if b != samples[0] {
			allSame = false
			break
		}
	}
	assert.False(t, allSame, "a dual-tone generator should not emit a flat signal")
}

func TestGeneratorPhaseContinuityAcrossCalls(t *testing.T) {
	continuous := NewGenerator(Symbol9, 10)
	whole := continuous.Next(320)

	split := NewGenerator(Symbol9, 10)
	first := split.Next(160)
	second := split.Next(160)

	assert.Equal(t, whole, append(first, second...))
}
