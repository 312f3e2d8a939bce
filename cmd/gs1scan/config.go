package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	gs1reader "github.com/wco1971/GS1CodeSymbolReader"
	"github.com/wco1971/GS1CodeSymbolReader/ai"
)

// config is the YAML file given with --config. Every field is optional.
type config struct {
	LogLevel           string `yaml:"logLevel"`
	VerifyChecksum     bool   `yaml:"verifyChecksum"`
	Base256Unrandomize bool   `yaml:"base256Unrandomize"`
	ForceHeuristic     bool   `yaml:"forceHeuristic"`
	// Table names a YAML AI table overlaid on the built-in one.
	Table string `yaml:"table"`
}

func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func (c *config) level(verbose bool) (logrus.Level, error) {
	if verbose {
		return logrus.DebugLevel, nil
	}
	if c.LogLevel == "" {
		return logrus.WarnLevel, nil
	}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, errors.Wrap(err, "config logLevel")
	}
	return lvl, nil
}

func (c *config) table() (*ai.Table, error) {
	if c.Table == "" {
		return ai.DefaultTable(), nil
	}
	f, err := os.Open(c.Table)
	if err != nil {
		return nil, errors.Wrap(err, "open ai table")
	}
	defer f.Close()

	extra, err := ai.LoadTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load ai table %s", c.Table)
	}
	return ai.DefaultTable().Merge(extra), nil
}

func (c *config) decodeOptions(log logrus.FieldLogger) (*gs1reader.DecodeOptions, error) {
	table, err := c.table()
	if err != nil {
		return nil, err
	}
	return &gs1reader.DecodeOptions{
		Logger:             log,
		Table:              table,
		VerifyChecksum:     c.VerifyChecksum,
		Base256Unrandomize: c.Base256Unrandomize,
		ForceHeuristic:     c.ForceHeuristic,
	}, nil
}
