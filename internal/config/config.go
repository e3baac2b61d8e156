package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"archwiki-offline/internal/optimizer"
)

// Config is the file configuration. Zero fields fall back to Default.
type Config struct {
	Origins        []string `yaml:"origins"`
	Stylesheet     string   `yaml:"stylesheet"`
	ImagePrefix    string   `yaml:"imagePrefix"`
	PageExtension  string   `yaml:"pageExtension"`
	StripSelectors []string `yaml:"stripSelectors"`
	Redirects      string   `yaml:"redirects"`
	Concurrency    int      `yaml:"concurrency"`

	Server struct {
		Addr   string `yaml:"addr"`
		Output string `yaml:"output"`
	} `yaml:"server"`
}

func Default() Config {
	opts := optimizer.DefaultOptions()
	c := Config{
		Origins:        opts.Origins,
		Stylesheet:     opts.Stylesheet,
		ImagePrefix:    opts.ImagePrefix,
		PageExtension:  ".html",
		StripSelectors: opts.StripSelectors,
		Concurrency:    10,
	}
	c.Server.Addr = ":8080"
	c.Server.Output = "/"
	return c
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	var fc Config
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.merge(fc)
	return c, c.Validate()
}

func (c *Config) merge(o Config) {
	if len(o.Origins) > 0 {
		c.Origins = o.Origins
	}
	if o.Stylesheet != "" {
		c.Stylesheet = o.Stylesheet
	}
	if o.ImagePrefix != "" {
		c.ImagePrefix = o.ImagePrefix
	}
	if o.PageExtension != "" {
		c.PageExtension = o.PageExtension
	}
	if o.StripSelectors != nil {
		c.StripSelectors = o.StripSelectors
	}
	if o.Redirects != "" {
		c.Redirects = o.Redirects
	}
	if o.Concurrency != 0 {
		c.Concurrency = o.Concurrency
	}
	if o.Server.Addr != "" {
		c.Server.Addr = o.Server.Addr
	}
	if o.Server.Output != "" {
		c.Server.Output = o.Server.Output
	}
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Stylesheet) == "" {
		errs = append(errs, errors.New("stylesheet must not be empty"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	for _, o := range c.Origins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			errs = append(errs, fmt.Errorf("origin %q must be an http(s) URL", o))
		}
	}
	if !strings.HasPrefix(c.PageExtension, ".") {
		errs = append(errs, fmt.Errorf("pageExtension %q must start with a dot", c.PageExtension))
	}
	return errors.Join(errs...)
}

// Options returns the optimizer settings of c.
func (c Config) Options() optimizer.Options {
	return optimizer.Options{
		Stylesheet:     c.Stylesheet,
		ImagePrefix:    c.ImagePrefix,
		Origins:        c.Origins,
		StripSelectors: c.StripSelectors,
	}
}
