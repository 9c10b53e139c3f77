package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dayscore/internal/ir"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dayscore", cmd.Use)
	assert.Contains(t, cmd.Long, "cascade")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"init"},
		{"habits", "list"},
		{"habits", "retire"},
		{"config", "show"},
		{"config", "load"},
		{"log"},
		{"show"},
		{"score"},
		{"recompute"},
		{"correlate"},
		{"trend"},
		{"vectors"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("metrics-file"))
}

func TestLogCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	logCmd, _, err := cmd.Find([]string{"log"})
	require.NoError(t, err)

	require.NotNil(t, logCmd.Flags().Lookup("set"))
	require.NotNil(t, logCmd.Flags().Lookup("label"))
}

func TestTrendCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	trendCmd, _, err := cmd.Find([]string{"trend"})
	require.NoError(t, err)

	byFlag := trendCmd.Flags().Lookup("by")
	require.NotNil(t, byFlag)
	assert.Equal(t, "date", byFlag.DefValue)
	require.NotNil(t, trendCmd.Flags().Lookup("from"))
	require.NotNil(t, trendCmd.Flags().Lookup("to"))
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "habits", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestDefaultDatabase(t *testing.T) {
	t.Setenv("DAYSCORE_DB", "")
	assert.Equal(t, DefaultDatabase, defaultDatabase())

	t.Setenv("DAYSCORE_DB", "/tmp/habits.db")
	assert.Equal(t, "/tmp/habits.db", defaultDatabase())
}

func TestParseDate(t *testing.T) {
	today := ir.MustParseDate("2026-03-10")

	tests := []struct {
		in   string
		want string
	}{
		{"today", "2026-03-10"},
		{"Today", "2026-03-10"},
		{"yesterday", "2026-03-09"},
		{"2026-01-31", "2026-01-31"},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in, today)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String())
	}

	_, err := parseDate("03/10/2026", today)
	assert.Error(t, err)

	open, err := parseOptionalDate("", today)
	require.NoError(t, err)
	assert.True(t, open.IsZero())
}

func TestParseEntry(t *testing.T) {
	entry, err := parseEntry(
		[]string{"gym=1", "phone_use=200", "porn=2"},
		[]string{"meal_quality=Good", "social=Casual Hangout"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"gym": 1, "phone_use": 200, "porn": 2}, entry.Values)
	assert.Equal(t, "Casual Hangout", entry.Label("social"))

	empty, err := parseEntry(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, empty.Values)
	assert.Nil(t, empty.Labels)

	for _, bad := range []string{"gym", "=1", "gym=yes"} {
		_, err := parseEntry([]string{bad}, nil)
		assert.Error(t, err, bad)
	}
	_, err = parseEntry(nil, []string{"meal_quality"})
	assert.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), ir.EngineVersion)
}
