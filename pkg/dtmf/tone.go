package dtmf

import "math"

const (
	tableSize  = 256
	sampleRate = 8000 // Hz, matches PCMU/8000

	// SilenceSample is the µ-law sentinel for zero amplitude, emitted
	// when no DTMF event is queued or no audio payload type has been
	// negotiated.
	SilenceSample byte = 0x80
)

// cosTable is the shared 256-entry cosine table, scaled to the full
// ±16383 amplitude; per-generation volume scaling is applied on top of
// this rather than rebuilding the table per call.
var cosTable [tableSize]float64

func init() {
	for i := 0; i < tableSize; i++ {
		cosTable[i] = math.Cos(2 * math.Pi * float64(i) / float64(tableSize))
	}
}

// expandTable and compressTable implement G.711 µ-law companding:
// expandTable is the canonical 7-bit-to-linear inverse table,
// compressTable its nearest-neighbor inverse built by a single linear
// sweep.
var (
	expandTable   [128]int
	compressTable [32768]uint8
)

func init() {
	for j := 0; j < 128; j++ {
		expandTable[j] = int(math.Floor((math.Pow(256, float64(j)/127.0) - 1) / 255 * 32767))
	}

	j := 0
	for v := 0; v < len(compressTable); v++ {
		for j+1 < len(expandTable) && abs(expandTable[j+1]-v) <= abs(expandTable[j]-v) {
			j++
		}
		compressTable[v] = uint8(j)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// encodeMulaw compresses one 16-bit linear sample into 8-bit µ-law:
// positive values emit 255-compress[val], negative values emit
// 127-compress[-val].
func encodeMulaw(val int32) byte {
	if val >= 0 {
		if val > 32767 {
			val = 32767
		}
		return byte(255 - compressTable[val])
	}
	mag := -val
	if mag > 32767 {
		mag = 32767
	}
	return byte(127 - compressTable[mag])
}

// phaseStep holds one Bresenham-style fractional phase accumulator
// for a single sinusoid component at frequency f against the shared
// cosTable: integer step d, fractional residual g, and accumulated
// error e keep the average phase advance exact despite f/sampleRate
// not dividing evenly.
type phaseStep struct {
	d, g int // integer step and fractional residual
	i, e int // current phase index and accumulated error
}

func newPhaseStep(freqHz int) phaseStep {
	product := freqHz * tableSize
	return phaseStep{
		d: product / sampleRate,
		g: product % sampleRate,
		e: sampleRate / 2,
	}
}

func (p *phaseStep) advance() int {
	p.e -= p.g
	if p.e < 0 {
		p.e += sampleRate
		p.i++
	}
	p.i = (p.i + p.d) % tableSize
	return p.i
}

// Generator synthesizes the µ-law dual-sinusoid samples for one DTMF
// symbol, maintaining phase continuity across successive calls to Next
// so that samples produced over multiple outbound packets form one
// continuous tone. An Event holds its own Generator and calls Next
// once per send tick for the event's duration.
type Generator struct {
	low, high phaseStep
	amplitude float64
}

// NewGenerator builds a tone generator for sym at the given volume
// (0-100, default 10).
func NewGenerator(sym Symbol, volume uint8) *Generator {
	lowHz, highHz := sym.Frequencies()
	return &Generator{
		low:       newPhaseStep(lowHz),
		high:      newPhaseStep(highHz),
		amplitude: 16383.0 * float64(volume) / 100.0,
	}
}

// Next produces n µ-law-encoded samples, advancing the generator's
// phase state.
func (g *Generator) Next(n int) []byte {
	out := make([]byte, n)
	for k := 0; k < n; k++ {
		li := g.low.advance()
		hi := g.high.advance()
		val := g.amplitude*cosTable[li] + g.amplitude*cosTable[hi]
		out[k] = encodeMulaw(int32(val))
	}
	return out
}

// Silence returns n samples of the µ-law silence sentinel, for the
// non-DTMF / null-event case.
func Silence(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = SilenceSample
	}
	return out
}
