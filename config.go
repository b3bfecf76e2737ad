package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/restcheck/posts-contract-tests/framework/opt"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional configuration file. It may be YAML or JSON; keys that are omitted
// or null leave the command-line defaults alone.
type fileConfig struct {
	URL     opt.Maybe[string]        `yaml:"url"`
	Data    opt.Maybe[string]        `yaml:"data"`
	Results opt.Maybe[string]        `yaml:"results"`
	Timeout opt.Maybe[time.Duration] `yaml:"timeout"`
	JUnit   opt.Maybe[string]        `yaml:"junit"`
	XLSX    opt.Maybe[string]        `yaml:"xlsx"`
}

func loadConfigFile(path string) (fileConfig, error) {
	var config fileConfig
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return config, fmt.Errorf("cannot read config file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// applyTo copies every defined setting into params, except those whose flags were given
// explicitly on the command line.
func (c fileConfig) applyTo(params *commandParams, explicitFlags map[string]bool) {
	setString := func(flagName string, value opt.Maybe[string], target *string) {
		if value.IsDefined() && !explicitFlags[flagName] {
			*target = value.Value()
		}
	}
	setString("url", c.URL, &params.targetURL)
	setString("data", c.Data, &params.dataFile)
	setString("results", c.Results, &params.resultsFile)
	setString("junit", c.JUnit, &params.jUnitFile)
	setString("xlsx", c.XLSX, &params.xlsxFile)
	if c.Timeout.IsDefined() && !explicitFlags["timeout"] {
		params.timeout = c.Timeout.Value()
	}
}
