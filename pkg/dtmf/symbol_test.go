package dtmf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbolRoundTripsDialPadChars(t *testing.T) {
	for _, c := range []byte("0123456789*#ABCDabcd") {
		sym, err := ParseSymbol(c)
		require.NoError(t, err)
		assert.NotEmpty(t, sym.String())
	}
}

func TestParseSymbolRejectsUnknown(t *testing.T) {
	_, err := ParseSymbol('x')
	assert.Error(t, err)
}

func TestEventCodeMatchesRFC2833Table(t *testing.T) {
	assert.Equal(t, uint8(0), Symbol0.EventCode())
	assert.Equal(t, uint8(9), Symbol9.EventCode())
	assert.Equal(t, uint8(10), SymbolStar.EventCode())
	assert.Equal(t, uint8(11), SymbolPound.EventCode())
	assert.Equal(t, uint8(15), SymbolD.EventCode())
}

func TestFrequenciesMatchStandardTable(t *testing.T) {
	low, high := Symbol1.Frequencies()
	assert.Equal(t, 697, low)
	assert.Equal(t, 1209, high)

	low, high = SymbolD.Frequencies()
	assert.Equal(t, 941, low)
	assert.Equal(t, 1633, high)
}
