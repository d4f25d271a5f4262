package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMetricsIsASingleton(t *testing.T) {
	a := DefaultMetrics()
	b := DefaultMetrics()
	assert.Same(t, a, b)
}

func TestNewMetricsDistinctSubsystemsDontPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics("rtp_test", "subsystem_a")
		NewMetrics("rtp_test", "subsystem_b")
	})
}
