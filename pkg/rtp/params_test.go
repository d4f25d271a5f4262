package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPCMU8000_20msPreset(t *testing.T) {
	assert.Equal(t, PayloadTypePCMU, PCMU8000_20ms.PayloadType)
	assert.Equal(t, uint32(8000), PCMU8000_20ms.ClockRate)
	assert.Equal(t, uint32(160), PCMU8000_20ms.SamplesPerPacket)
	assert.Equal(t, uint32(160), PCMU8000_20ms.TimestampAdvance())
}
