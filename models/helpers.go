package models

import (
	"math"
	"strconv"
	"strings"
)

// ─── shared formatting helpers ──────────────────────────────────────────

// FieldSeparator joins the columns of every dataset line.
const FieldSeparator = ", "

// DefaultMinDecimals is the narrowest fractional width a dataset file uses.
const DefaultMinDecimals = 6

func itoa(v int) string      { return strconv.Itoa(v) }
func utoa64(v uint64) string { return strconv.FormatUint(v, 10) }

// NumberFormat is the per-channel rendering of floating values. It is fixed
// when a channel opens and carried with it for every later line.
type NumberFormat struct {
	// MinDecimals pads the fractional part with zeros up to this width.
	MinDecimals int
}

// Float renders v in fixed-point notation. The digits are the shortest ones
// that parse back to exactly v, padded to MinDecimals; no exponent is ever
// used. NaN and infinities are written as strconv spells them.
func (nf NumberFormat) Float(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || nf.MinDecimals <= 0 {
		return s
	}

	decimals := 0
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		decimals = len(s) - dot - 1
	} else {
		s += "."
	}
	if pad := nf.MinDecimals - decimals; pad > 0 {
		s += strings.Repeat("0", pad)
	}
	return s
}

// RowWriter is the interface every dataset record must satisfy.
type RowWriter interface {
	// Columns names the record's fields in the order Row emits them.
	Columns() []string
	Row(nf NumberFormat) []string
}

// JoinFields renders one dataset line, newline included.
func JoinFields(fields []string) string {
	return strings.Join(fields, FieldSeparator) + "\n"
}
