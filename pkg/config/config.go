// Package config loads the YAML run configuration of the command line tool.
//
//	prompt: "lisp> "
//	color: false
//	quote_sugar: true
//	show_pass: true
//	exit_on_fail: false
//	preload:
//	  - prelude.lisp
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/luthersystems/taglisp/pkg/runtime"
)

// DefaultPrompt is the repl prompt used when none is configured.
const DefaultPrompt = "> "

// Config is a run configuration.  Pointer fields are unset when nil so that
// a runtime default applies.
type Config struct {
	Prompt     string   `yaml:"prompt"`
	Color      *bool    `yaml:"color"`
	QuoteSugar *bool    `yaml:"quote_sugar"`
	ShowPass   *bool    `yaml:"show_pass"`
	ExitOnFail bool     `yaml:"exit_on_fail"`
	Preload    []string `yaml:"preload"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Prompt: DefaultPrompt}
}

// Parse decodes a configuration document.  Unknown fields are an error.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(c)
	if errors.Is(err, io.EOF) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	return c, nil
}

// Load reads the configuration file at path.  Relative preload paths are
// resolved against the directory containing the file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, p := range c.Preload {
		if !filepath.IsAbs(p) {
			c.Preload[i] = filepath.Join(dir, p)
		}
	}
	return c, nil
}

// RuntimeOptions returns the runtime options implied by c.
func (c *Config) RuntimeOptions() []runtime.Option {
	var options []runtime.Option
	if c.Color != nil {
		options = append(options, runtime.WithColor(*c.Color))
	}
	if c.QuoteSugar != nil {
		options = append(options, runtime.WithQuoteSugar(*c.QuoteSugar))
	}
	return options
}

// ShouldShowPass reports whether passing self-test assertions are printed.
// It defaults to true.
func (c *Config) ShouldShowPass() bool {
	return c.ShowPass == nil || *c.ShowPass
}
