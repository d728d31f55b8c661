package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	s, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, entity.ModeSequential, s.Form.Mode)
	assert.Equal(t, "#000000", s.Form.Foreground)
	assert.Equal(t, "#FFFFFF", s.Form.Background)
	assert.Equal(t, "SECD", s.Form.SecurityCode)
	assert.Equal(t, "23FF45EE", s.Form.SuffixCode)
	assert.Equal(t, "auto", s.Form.Version)
	assert.Equal(t, "10", s.Form.ModuleSize)
	assert.Equal(t, "4", s.Form.Border)
	assert.Equal(t, "85", s.Form.Quality)
	assert.Equal(t, "2", s.Form.Precision)
	assert.True(t, s.Form.UsePayloadAsFilename)
	assert.Equal(t, "output", s.Output.Dir)
	assert.True(t, s.Output.Zip)
	assert.False(t, s.Output.Cleanup)
	assert.Equal(t, "file", s.Presets.Backend)
	assert.Equal(t, 6379, s.Redis.Port)
}

func TestLoadFlagsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("QRBATCH_OUTPUT_DIR", "from-env")
	t.Setenv("QRBATCH_COLORS_BACKGROUND", "navy")

	s, _, err := Load([]string{"--mode", "csv", "--input", "rows.csv", "--column", "2", "--output", "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, entity.ModeTabular, s.Form.Mode)
	assert.Equal(t, "rows.csv", s.Input.Path)
	assert.Equal(t, "2", s.Form.Column)
	assert.Equal(t, "from-flag", s.Output.Dir)
	assert.Equal(t, "navy", s.Form.Background)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	yaml := "output:\n  format: svg\n  vector-style: path\ngeneration:\n  count: \"5\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	s, _, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "svg", s.Form.Format)
	assert.Equal(t, "path", s.Form.VectorStyle)
	assert.Equal(t, "5", s.Form.Count)
}

func TestLoadRejectsTabularWithoutInput(t *testing.T) {
	chdir(t, t.TempDir())
	_, _, err := Load([]string{"--mode", "tabular"})
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("QRBATCH_PRESETS_BACKEND", "s3")
	_, _, err := Load(nil)
	assert.Error(t, err)
}

func TestApplyPresetKeepsFlags(t *testing.T) {
	chdir(t, t.TempDir())
	_, v, err := Load([]string{"--color", "red"})
	require.NoError(t, err)

	s, err := ApplyPreset(v, map[string]any{
		"color":          "blue",
		"box_size":       "12",
		"skip_first_row": true,
		"unknown":        "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "red", s.Form.Foreground)
	assert.Equal(t, "12", s.Form.ModuleSize)
	assert.True(t, s.Form.SkipHeader)
}

func TestDelimiterRune(t *testing.T) {
	tests := []struct {
		in   string
		want rune
		err  bool
	}{
		{"", 0, false},
		{";", ';', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"ab", 0, true},
	}
	for _, tt := range tests {
		got, err := InputSettings{Delimiter: tt.in}.DelimiterRune()
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseSettings{User: "u", Password: "p", Name: "n", Host: "h", Port: 5432, SSLMode: "disable"}
	assert.Equal(t, "user=u password=p dbname=n host=h port=5432 sslmode=disable", d.DSN())
}

func TestLoadHistoryFlags(t *testing.T) {
	chdir(t, t.TempDir())

	s, _, err := Load([]string{"--history", "3", "--show-run", "run-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, s.History.List)
	assert.Equal(t, "run-1", s.History.Show)

	_, _, err = Load([]string{"--history", "-1"})
	assert.Error(t, err)
}
