package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zillow-wholesale/config"
	"zillow-wholesale/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPriceRangeCommand(t *testing.T) {
	out, err := run(t, "price-range", "--avg-rent", "1400")
	require.NoError(t, err)

	var params config.SearchParams
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	require.NotNil(t, params.MinPrice)
	require.NotNil(t, params.MaxPrice)
	assert.Equal(t, int64(30240), *params.MinPrice)
	assert.Equal(t, int64(64260), *params.MaxPrice)
	assert.Equal(t, config.LocationCounty, params.LocationType)
	assert.Equal(t, 15, params.Radius)
}

func TestPriceRangeCommandWithPresetAndFlags(t *testing.T) {
	out, err := run(t, "--preset", "subject-to", "price-range", "--avg-rent", "1400", "--zip", "27601", "--radius", "8")
	require.NoError(t, err)

	var params config.SearchParams
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	assert.Equal(t, config.LocationZip, params.LocationType)
	assert.Equal(t, "27601", params.ZipCode)
	assert.Empty(t, params.County)
	assert.Equal(t, 8, params.Radius)
	assert.Equal(t, 90, params.MinDaysOnMarket)
	assert.Equal(t, int64(47600), *params.MaxPrice)
}

func TestPriceRangeCommandOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_roi: 8\ninvestment:\n  cash_purchase: false\n  financed_purchase: true\n"), 0o644))

	out, err := run(t, "--config", path, "price-range", "--avg-rent", "1000")
	require.NoError(t, err)

	var params config.SearchParams
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	// 1000 * 0.9 * 0.5 * 12 / 0.08 / 0.20 = 337500
	assert.Equal(t, int64(286875), *params.MaxPrice)
	assert.Equal(t, int64(135000), *params.MinPrice)
}

func TestPriceRangeCommandInvalid(t *testing.T) {
	_, err := run(t, "price-range", "--avg-rent", "1400", "--roi", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfiguration)

	_, err = run(t, "--preset", "flip", "price-range", "--avg-rent", "1400")
	assert.ErrorIs(t, err, config.ErrUnknownPreset)
}

func TestSearchCommandInvalidKeepsCallSheet(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "call_sheet.csv")
	previous := []byte("Address,Price\n123 Oak St,$245000\n")
	require.NoError(t, os.WriteFile(csvPath, previous, 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"zero roi", []string{"search", "--avg-rent", "1400", "--roi", "0", "--csv", csvPath}},
		{"negative rent", []string{"search", "--avg-rent=-1", "--csv", csvPath}},
	}
	for _, tt := range tests {
		_, err := run(t, tt.args...)
		require.Error(t, err, tt.name)
		assert.ErrorIs(t, err, config.ErrInvalidConfiguration, tt.name)

		got, err := os.ReadFile(csvPath)
		require.NoError(t, err)
		assert.Equal(t, previous, got, tt.name)
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)

	for _, name := range config.PresetNames() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "BUILT AFTER")
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.json")
	csvPath := filepath.Join(dir, "call_sheet.csv")

	raw := `[
	  {"address": "123 Oak St", "price": "$245,000", "days_on_market": "150", "url": "https://www.zillow.com/homedetails/1_zpid/"},
	  {"address": "9 Elm Ct", "price": "$310,000", "days_on_market": 95, "bedrooms": null},
	  {}
	]`
	require.NoError(t, os.WriteFile(input, []byte(raw), 0o644))

	out, err := run(t, "analyze", "--input", input, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "WHOLESALE CALL SHEET SUMMARY")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "123 Oak St", rows[1][0])
	assert.Equal(t, "40", rows[1][8])
	assert.Equal(t, string(models.ActionResearchMore), rows[1][9])
	assert.Equal(t, "30", rows[2][8])
	assert.Equal(t, string(models.ActionResearchMore), rows[2][9])
	assert.Equal(t, models.NotAvailable, rows[3][0])
	assert.Equal(t, "10", rows[3][8])
}

func TestAnalyzeCommandRequiresInput(t *testing.T) {
	_, err := run(t, "analyze")
	assert.Error(t, err)
}

func TestReadRawListings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"days_on_market": 120, "bathrooms": 2.5, "url": null}]`), 0o644))

	raw, err := readRawListings(path)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, "120", raw[0][models.FieldDaysOnMarket])
	assert.Equal(t, "2.5", raw[0][models.FieldBathrooms])
	assert.NotContains(t, raw[0], models.FieldURL)

	_, err = readRawListings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStrategyFlagsApplyOnlyChanged(t *testing.T) {
	var sf strategyFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	sf.register(fs)
	require.NoError(t, fs.Parse([]string{"--self-managed", "--down-payment", "25"}))

	base := config.DefaultSearchConfig()
	got := sf.apply(fs, base)

	assert.Equal(t, base.TargetROI, got.TargetROI, "unset --roi keeps the base value")
	assert.Equal(t, "Wake", got.Location.County)
	assert.Equal(t, 0.0, got.Management.FeeRate())
	require.NotNil(t, got.Investment.CustomDown)
	assert.Equal(t, 25.0, *got.Investment.CustomDown)
	assert.Nil(t, base.Investment.CustomDown, "base is not modified")
}
