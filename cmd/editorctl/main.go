package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/editorctl/internal/cli"
	"github.com/vburojevic/editorctl/internal/config"
)

const quickStart = `editorctl - editor refresh control endpoint for AI agents

Quick start:
  editorctl serve                       Run the control endpoint (simulated host)
  editorctl refresh                     Trigger a refresh and wait for the outcome
  editorctl status                      Check the endpoint
  editorctl logs -n 100                 Fetch recent editor logs

For help:
  editorctl --help                      All commands and flags
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":   "",
		"config_endpoint": cfg.Defaults.Endpoint,
		"config_port":     strconv.Itoa(cfg.Server.Port),
		"config_timeout":  cfg.Server.RefreshTimeout,
	}

	ctx := kong.Parse(&c,
		kong.Name("editorctl"),
		kong.Description("editorctl: drive editor asset refreshes from AI agents over a local HTTP endpoint"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	// Create globals with config fallbacks
	globals := cli.NewGlobalsWithConfig(&c, cfg)
	err = ctx.Run(globals)
	if err != nil {
		os.Exit(1)
	}
}
