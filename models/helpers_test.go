package models

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestNumberFormatFloat(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		min  int
		want string
	}{
		{"padded", 100.5, 6, "100.500000"},
		{"integral", 25, 6, "25.000000"},
		{"zero", 0, 6, "0.000000"},
		{"negative", -0.02, 6, "-0.020000"},
		{"exact six", 1234567.890123, 6, "1234567.890123"},
		{"needs more digits", 0.1 + 0.2, 6, "0.30000000000000004"},
		{"no padding", 25, 0, "25"},
		{"large", 1e21, 2, "1000000000000000000000.00"},
		{"nan", math.NaN(), 6, "NaN"},
		{"inf", math.Inf(1), 6, "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NumberFormat{MinDecimals: tt.min}.Float(tt.v)
			if got != tt.want {
				t.Errorf("Float(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestNumberFormatRoundTrip(t *testing.T) {
	values := []float64{
		0,
		math.Copysign(0, -1),
		-1,
		0.1 + 0.2,
		1.0 / 3.0,
		9.81,
		-273.15,
		math.Nextafter(1, 2),
		math.SmallestNonzeroFloat64,
		-1e-300,
		math.MaxFloat64,
		1234567.890123,
	}

	nf := NumberFormat{MinDecimals: DefaultMinDecimals}
	for _, v := range values {
		s := nf.Float(v)
		if strings.ContainsAny(s, "eE") {
			t.Errorf("Float(%v) = %q uses exponent notation", v, s)
		}
		got, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q): %v", s, err)
		}
		if math.Float64bits(got) != math.Float64bits(v) {
			t.Errorf("round trip of %v through %q gave %v", v, s, got)
		}
	}
}

func TestColumnsMatchRow(t *testing.T) {
	nf := NumberFormat{MinDecimals: DefaultMinDecimals}
	records := map[string]RowWriter{
		"motion": &MotionData{Flag: MotionFlagAccel, Timestamp: 1},
		"stream": &StreamData{FrameID: 3, Timestamp: 1, ExposureTime: 8.3},
	}

	for name, rec := range records {
		t.Run(name, func(t *testing.T) {
			if cols, row := len(rec.Columns()), len(rec.Row(nf)); cols != row {
				t.Errorf("%d columns but %d fields", cols, row)
			}
		})
	}
}

func TestMotionDataRow(t *testing.T) {
	d := &MotionData{
		Flag:        1,
		Timestamp:   100.5,
		Accel:       [3]float64{0, 0, 9.8},
		Temperature: 25,
	}
	got := JoinFields(d.Row(NumberFormat{MinDecimals: 6}))
	want := "1, 100.500000, 0.000000, 0.000000, 9.800000, 0.000000, 0.000000, 0.000000, 25.000000\n"
	if got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
}
