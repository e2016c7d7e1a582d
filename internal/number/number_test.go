package number

import (
	"math"
	"testing"
)

type celsius float32

func TestToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{name: "int", value: 42, want: 42, wantOK: true},
		{name: "negative_int64", value: int64(-7), want: -7, wantOK: true},
		{name: "uint64", value: uint64(3), want: 3, wantOK: true},
		{name: "float64", value: 1.5, want: 1.5, wantOK: true},
		{name: "named_float", value: celsius(21.5), want: 21.5, wantOK: true},
		{name: "string", value: "42", wantOK: false},
		{name: "bool", value: true, wantOK: false},
		{name: "nil", value: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ToFloat64(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ToFloat64(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{name: "int", value: 3, want: 3},
		{name: "int8", value: int8(-2), want: -2},
		{name: "uint64", value: uint64(9), want: 9},
		{name: "uint64_overflow", value: uint64(math.MaxUint64), wantErr: true},
		{name: "whole_float", value: 2.0, wantErr: true},
		{name: "string", value: "2", wantErr: true},
		{name: "nil", value: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ToInt(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToInt(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ToInt(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
