package format_test

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"kriptomarket/internal/format"
)

func ptr(v float64) *float64 { return &v }

func TestLarge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"below thousand", ptr(999), "999.00"},
		{"thousands", ptr(1500), "1.50K"},
		{"thousand boundary", ptr(1000), "1.00K"},
		{"millions", ptr(2_500_000), "2.50M"},
		{"billions", ptr(3_200_000_000), "3.20B"},
		{"trillions stay in billions", ptr(1_250_000_000_000), "1250.00B"},
		{"negative", ptr(-1500), "-1.50K"},
		{"zero", ptr(0), "0.00"},
		{"nil", nil, format.NotAvailable},
		{"nan", ptr(math.NaN()), format.NotAvailable},
		{"inf", ptr(math.Inf(1)), format.NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, format.Large(tt.in))
		})
	}
}

func TestPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"grouped dollars", ptr(50000), "$50,000.00"},
		{"cents", ptr(1.5), "$1.50"},
		{"six fraction digits", ptr(0.000123), "$0.000123"},
		{"rounds to six digits", ptr(0.1234567), "$0.123457"},
		{"threshold itself is fixed", ptr(0.000001), "$0.000001"},
		{"zero", ptr(0), "$0.00"},
		{"nil", nil, format.NotAvailable},
		{"nan", ptr(math.NaN()), format.NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, format.Price(tt.in))
		})
	}
}

func TestPrice_Scientific(t *testing.T) {
	t.Parallel()

	// Act
	got := format.Price(ptr(0.0000001))

	// Assert: exponential with two mantissa decimals
	require.Regexp(t, regexp.MustCompile(`^\d\.\d{2}e[+-]\d+$`), got)
	require.Equal(t, "1.00e-7", got)
	require.Equal(t, "2.35e-9", format.Price(ptr(0.00000000235)))
}

func TestPercent(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2.50%", format.Percent(ptr(2.5)))
	require.Equal(t, "3.14%", format.Percent(ptr(-3.14159)))
	require.Equal(t, format.NotAvailable, format.Percent(nil))
}

func TestDirectionOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, format.Up, format.DirectionOf(ptr(1)))
	require.Equal(t, format.Down, format.DirectionOf(ptr(-0.01)))
	require.Equal(t, format.Flat, format.DirectionOf(ptr(0)))
	require.Equal(t, format.Unknown, format.DirectionOf(nil))
}

func TestSupply(t *testing.T) {
	t.Parallel()

	require.Equal(t, "19.70M BTC", format.Supply(ptr(19_700_000), "btc"))
	require.Equal(t, format.NotAvailable, format.Supply(nil, "BTC"))
}
