package router

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   bool
		wantOK bool
	}{
		{"native true", true, true, true},
		{"native false", false, false, true},
		{"string true", "true", true, true},
		{"string TRUE with padding", "  TRUE ", true, true},
		{"string yes", "yes", true, true},
		{"string on", "on", true, true},
		{"string 1", "1", true, true},
		{"string false", "false", false, true},
		{"string off", "off", false, true},
		{"string 0", "0", false, true},
		{"empty string", "", false, true},
		{"unparseable string", "maybe", false, false},
		{"float nonzero", 1.0, true, true},
		{"float zero", 0.0, false, true},
		{"int nonzero", 42, true, true},
		{"json number", json.Number("1"), true, true},
		{"nil", nil, false, false},
		{"object", map[string]interface{}{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceBool(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   float64
		wantOK bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"json number", json.Number("512"), 512, true},
		{"numeric string", " 1024 ", 1024, true},
		{"bad string", "lots", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
