package config

import (
	"os"

	"github.com/JJ-Intelligence/rewritable-ttt/pkg/game"
	"github.com/JJ-Intelligence/rewritable-ttt/pkg/game/tictactoe"
	"github.com/JJ-Intelligence/rewritable-ttt/plugins/games/rewritable"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const defaultRequestBuffer = 16

type RawGameConfig struct {
	Overwrite bool     `yaml:"overwrite"`
	Forbidden []string `yaml:"forbidden"`
}

type RawYamlConfig struct {
	LogLevel      string                   `yaml:"logLevel"`
	RequestBuffer int                      `yaml:"requestBuffer"`
	Games         map[string]RawGameConfig `yaml:"games"`
}

type Config struct {
	LogLevel      string
	RequestBuffer int
	Games         game.Registry
}

// Default is used when no config file is given: the standard game as
// "tictactoe" and the overwriting variant as "rewritable".
func Default() *Config {
	games := game.Registry{}
	games.Register(rewritable.New("tictactoe", tictactoe.Rules{}))
	games.Register(rewritable.New("rewritable", tictactoe.Rules{Overwrite: true}))
	return &Config{
		LogLevel:      "info",
		RequestBuffer: defaultRequestBuffer,
		Games:         games,
	}
}

func ParseConfig(path string) (*Config, error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config")
	}
	return Parse(configFile)
}

// Parse builds a Config from yaml.
func Parse(data []byte) (*Config, error) {
	var rawConfig RawYamlConfig
	if err := yaml.UnmarshalStrict(data, &rawConfig); err != nil {
		return nil, errors.Wrap(err, "unable to parse yaml config")
	}

	config := &Config{
		LogLevel:      rawConfig.LogLevel,
		RequestBuffer: rawConfig.RequestBuffer,
		Games:         game.Registry{},
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.RequestBuffer <= 0 {
		config.RequestBuffer = defaultRequestBuffer
	}
	if len(rawConfig.Games) == 0 {
		return nil, errors.New("config defines no games")
	}

	for name, rawGame := range rawConfig.Games {
		forbidden := make([]tictactoe.Position, 0, len(rawGame.Forbidden))
		for _, s := range rawGame.Forbidden {
			p, err := tictactoe.ParsePosition(s)
			if err != nil {
				return nil, errors.Wrapf(err, "game %s", name)
			}
			forbidden = append(forbidden, p)
		}
		config.Games.Register(rewritable.New(name, tictactoe.Rules{Overwrite: rawGame.Overwrite}, forbidden...))
	}
	return config, nil
}
