package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ppicrawl/internal/analysis"
)

func TestParseNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "plain comma decimal", raw: "3,9505", want: 3.9505},
		{name: "currency prefix", raw: "R$ 12,50", want: 12.50},
		{name: "percent suffix", raw: "-12,5%", want: -12.5},
		{name: "thousands dot comma decimal", raw: "1.234,56", want: 1234.56},
		{name: "thousands comma dot decimal", raw: "1,234.56", want: 1234.56},
		{name: "multiple thousands groups", raw: "1.234.567,89", want: 1234567.89},
		{name: "lone dot kept as decimal", raw: "12.50", want: 12.50},
		{name: "integer", raw: "42", want: 42},
		{name: "padded whitespace", raw: "  R$  3,60  ", want: 3.60},
		{name: "negative currency", raw: "R$ -0,29", want: -0.29},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := analysis.ParseNumeric(tt.raw)
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseNumeric_NotNumeric(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "--", "n/d", "R$ ", "%", "1.2.3,4,5"} {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			_, err := analysis.ParseNumeric(raw)
			require.ErrorIs(t, err, analysis.ErrNotNumeric)
		})
	}
}
