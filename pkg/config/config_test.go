package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JJ-Intelligence/rewritable-ttt/pkg/game/tictactoe"
	"github.com/JJ-Intelligence/rewritable-ttt/plugins/games/rewritable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
logLevel: debug
requestBuffer: 4
games:
  classic:
    overwrite: false
  rewritable:
    overwrite: true
    forbidden:
      - "A........"
      - |
        ...
        .B.
        ...
`

func TestParse(t *testing.T) {
	config, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 4, config.RequestBuffer)
	require.Len(t, config.Games, 2)

	state, err := config.Games["rewritable"].NewState([]string{"a", "b"})
	require.NoError(t, err)
	h := state.(*rewritable.State).History
	assert.True(t, h.Rules().Overwrite)
	for _, s := range []string{"A........", "....B...."} {
		p, err := tictactoe.ParsePosition(s)
		require.NoError(t, err)
		assert.True(t, h.Seen(p), s)
	}

	state, err = config.Games["classic"].NewState([]string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, state.(*rewritable.State).History.Rules().Overwrite)
}

func TestParseDefaults(t *testing.T) {
	config, err := Parse([]byte("games:\n  tictactoe: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, defaultRequestBuffer, config.RequestBuffer)
	assert.Contains(t, config.Games, "tictactoe")
}

func TestParseErrors(t *testing.T) {
	for name, data := range map[string]string{
		"not yaml":       "games: [",
		"no games":       "logLevel: info\n",
		"unknown field":  "games:\n  tictactoe: {diagonal: true}\n",
		"bad forbidden":  "games:\n  tictactoe:\n    forbidden: [\"AXA......\"]\n",
		"short position": "games:\n  tictactoe:\n    forbidden: [\"A\"]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	config, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Len(t, config.Games, 2)

	_, err = ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	config := Default()
	assert.Contains(t, config.Games, "tictactoe")
	assert.Contains(t, config.Games, "rewritable")
	assert.Equal(t, defaultRequestBuffer, config.RequestBuffer)
}
