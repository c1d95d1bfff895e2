package rank

import (
	"testing"

	"github.com/poiesic/internmatch/core"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStipend(t *testing.T) {
	tests := []struct {
		name    string
		stipend core.Stipend
		want    int
	}{
		{
			name:    "unpaid lowercase",
			stipend: core.Stipend{Raw: "unpaid"},
			want:    0,
		},
		{
			name:    "unpaid mixed case",
			stipend: core.Stipend{Raw: "Unpaid"},
			want:    0,
		},
		{
			name:    "range with thousands separators and spaces",
			stipend: core.Stipend{Raw: "5,000 - 8,000 per month"},
			want:    6500,
		},
		{
			name:    "compact range",
			stipend: core.Stipend{Raw: "5000-8000 per month"},
			want:    6500,
		},
		{
			name:    "range with odd sum uses integer division",
			stipend: core.Stipend{Raw: "1000-1001"},
			want:    1000,
		},
		{
			name:    "numeric integer",
			stipend: core.Stipend{Value: 12000, Numeric: true},
			want:    12000,
		},
		{
			name:    "numeric float truncates",
			stipend: core.Stipend{Value: 6500.9, Numeric: true},
			want:    6500,
		},
		{
			name:    "leading amount",
			stipend: core.Stipend{Raw: "10,000 per month"},
			want:    10000,
		},
		{
			name:    "not a number",
			stipend: core.Stipend{Raw: "not a number"},
			want:    0,
		},
		{
			name:    "currency prefix is a parse failure",
			stipend: core.Stipend{Raw: "$5000 per month"},
			want:    0,
		},
		{
			name:    "decimal token is a parse failure",
			stipend: core.Stipend{Raw: "5000.50 per month"},
			want:    0,
		},
		{
			name:    "empty string",
			stipend: core.Stipend{Raw: ""},
			want:    0,
		},
		{
			name:    "whitespace only",
			stipend: core.Stipend{Raw: "   "},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStipend(tt.stipend))
		})
	}
}
