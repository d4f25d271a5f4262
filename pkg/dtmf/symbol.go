// Package dtmf implements the DTMF Engine: the per-session FIFO of
// pending telephony events, the RFC 2833 payload encoder, and the
// µ-law dual-sinusoid tone generator used when the peer hasn't
// negotiated RFC 2833 and the event must be sent as synthesized audio
// instead.
package dtmf

import "fmt"

// Symbol is one DTMF digit — the twelve standard keys plus the four
// extended "ABCD" tones — with its canonical (low_hz, high_hz) pair
// and RFC 2833 event code.
type Symbol uint8

const (
	Symbol0 Symbol = iota
	Symbol1
	Symbol2
	Symbol3
	Symbol4
	Symbol5
	Symbol6
	Symbol7
	Symbol8
	Symbol9
	SymbolStar
	SymbolPound
	SymbolA
	SymbolB
	SymbolC
	SymbolD
)

// String renders the symbol as the character a dial pad shows.
func (s Symbol) String() string {
	switch s {
	case Symbol0, Symbol1, Symbol2, Symbol3, Symbol4, Symbol5, Symbol6, Symbol7, Symbol8, Symbol9:
		return fmt.Sprintf("%d", int(s))
	case SymbolStar:
		return "*"
	case SymbolPound:
		return "#"
	case SymbolA:
		return "A"
	case SymbolB:
		return "B"
	case SymbolC:
		return "C"
	case SymbolD:
		return "D"
	default:
		return "?"
	}
}

// EventCode returns the RFC 2833 telephony-event code for the symbol:
// 0-9 -> 0..9, * -> 10, # -> 11, A-D -> 12..15.
func (s Symbol) EventCode() uint8 {
	return uint8(s)
}

// toneFrequencies is the standard DTMF row/column frequency table in
// Hz, one (low, high) pair per symbol (e.g. 1 -> (697, 1209), * ->
// (941, 1209), D -> (941, 1633)).
var toneFrequencies = map[Symbol][2]int{
	Symbol1:     {697, 1209},
	Symbol2:     {697, 1336},
	Symbol3:     {697, 1477},
	SymbolA:     {697, 1633},
	Symbol4:     {770, 1209},
	Symbol5:     {770, 1336},
	Symbol6:     {770, 1477},
	SymbolB:     {770, 1633},
	Symbol7:     {852, 1209},
	Symbol8:     {852, 1336},
	Symbol9:     {852, 1477},
	SymbolC:     {852, 1633},
	SymbolStar:  {941, 1209},
	Symbol0:     {941, 1336},
	SymbolPound: {941, 1477},
	SymbolD:     {941, 1633},
}

// Frequencies returns the (low, high) frequency pair for the symbol.
func (s Symbol) Frequencies() (low, high int) {
	f := toneFrequencies[s]
	return f[0], f[1]
}

// ParseSymbol maps a dial-pad character onto its Symbol, for building
// a DtmfEvent queue from a digit string like "123#".
func ParseSymbol(c byte) (Symbol, error) {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return Symbol(c - '0'), nil
	case '*':
		return SymbolStar, nil
	case '#':
		return SymbolPound, nil
	case 'A', 'a':
		return SymbolA, nil
	case 'B', 'b':
		return SymbolB, nil
	case 'C', 'c':
		return SymbolC, nil
	case 'D', 'd':
		return SymbolD, nil
	default:
		return 0, fmt.Errorf("dtmf: unrecognized digit %q", c)
	}
}
