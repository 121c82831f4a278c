package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/config"
)

func TestConfig_AllowedNumbers(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "Empty", raw: "", want: nil},
		{name: "CSV", raw: "56911111111, 56922222222,", want: []string{"56911111111", "56922222222"}},
		{name: "JSON", raw: `["56911111111","56922222222"]`, want: []string{"56911111111", "56922222222"}},
		{name: "BrokenJSON", raw: `["56911111111"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			cfg.Auth.AllowedNumbers = tt.raw

			got, err := cfg.AllowedNumbers()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "America/Santiago", cfg.App.TimeZone)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Santiago", loc.String())
}
