package i18n_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"kriptomarket/internal/i18n"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want i18n.Language
	}{
		{"en", i18n.English},
		{"EN", i18n.English},
		{"en-US", i18n.English},
		{"so", i18n.Somali},
		{" so-SO ", i18n.Somali},
	}
	for _, tt := range tests {
		got, err := i18n.Parse(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestParse_Unsupported(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "fr", "not a tag!"} {
		_, err := i18n.Parse(in)
		require.Error(t, err, in)
		require.True(t, errors.Is(err, i18n.ErrUnsupportedLanguage), in)
	}
}

func TestToggle(t *testing.T) {
	t.Parallel()

	require.Equal(t, i18n.Somali, i18n.English.Toggle())
	require.Equal(t, i18n.English, i18n.Somali.Toggle())
}

func TestLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Price", i18n.English.Label(i18n.Price))
	require.Equal(t, "Qiimaha", i18n.Somali.Label(i18n.Price))
	require.Equal(t, "Suuqa Xaddiga", i18n.Somali.Label(i18n.MarketCap))
	require.Equal(t, "24h Isbeddelka", i18n.Somali.Label(i18n.Change24h))
	require.Equal(t, "unknown", i18n.Somali.Label(i18n.Key("unknown")))
	require.Len(t, i18n.Somali.Labels(), len(i18n.English.Labels()))
}
