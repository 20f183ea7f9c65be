// Package config defines the catalog server configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

const (
	defaultTemplatePath = "web/templates/index.html"
	defaultStaticDir    = "web/static"
)

type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Database   config.DatabaseConfig  `koanf:"database"`
	Template   TemplateConfig         `koanf:"template"`
	Static     StaticConfig           `koanf:"static"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
	Nats       config.NATSConfig      `koanf:"nats"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
}

// TemplateConfig locates the page template. The file is read on every render.
type TemplateConfig struct {
	Path string `koanf:"path"`
}

// StaticConfig locates the directory served under /static/.
type StaticConfig struct {
	Dir string `koanf:"dir"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())

	b.WriteString("\n--- Web ---\n")
	b.WriteString(fmt.Sprintf("  template.path: %s\n", c.Template.Path))
	b.WriteString(fmt.Sprintf("  static.dir: %s\n", c.Static.Dir))

	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Telemetry.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Template.Path == "" {
		c.Template.Path = defaultTemplatePath
	}
	if c.Static.Dir == "" {
		c.Static.Dir = defaultStaticDir
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}
