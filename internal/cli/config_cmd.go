package cli

import (
	"fmt"

	"github.com/vburojevic/editorctl/internal/config"
)

// ConfigCmd groups configuration inspection subcommands
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Show the effective configuration"`
	Path ConfigPathCmd `cmd:"" help:"Show which config file is in use"`
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config

	if globals.Format == "ndjson" {
		return writeNDJSON(globals, "config", map[string]any{
			"format": cfg.Format,
			"server": map[string]any{
				"port":            cfg.Server.Port,
				"refresh_timeout": cfg.Server.RefreshTimeout,
				"poll_interval":   cfg.Server.PollInterval,
				"buffer_capacity": cfg.Server.BufferCapacity,
			},
			"defaults": map[string]any{
				"endpoint": cfg.Defaults.Endpoint,
				"count":    cfg.Defaults.Count,
			},
		})
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintf(globals.Stdout, "  format: %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  server.port: %d\n", cfg.Server.Port)
	fmt.Fprintf(globals.Stdout, "  server.refresh_timeout: %s\n", cfg.Server.RefreshTimeout)
	fmt.Fprintf(globals.Stdout, "  server.poll_interval: %s\n", cfg.Server.PollInterval)
	fmt.Fprintf(globals.Stdout, "  server.buffer_capacity: %d\n", cfg.Server.BufferCapacity)
	fmt.Fprintln(globals.Stdout, "Defaults:")
	fmt.Fprintf(globals.Stdout, "  endpoint: %s\n", cfg.Defaults.Endpoint)
	fmt.Fprintf(globals.Stdout, "  count: %d\n", cfg.Defaults.Count)
	return nil
}

// ConfigPathCmd prints the loaded config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return writeNDJSON(globals, "config_path", map[string]any{"path": path})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found (using defaults)")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}
	return nil
}
