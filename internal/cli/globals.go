package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/editorctl/internal/config"
)

// CLI is the root command structure parsed by kong
type CLI struct {
	Format   string `help:"Output format: text or ndjson (default: ndjson when piped)" enum:"text,ndjson," default:"${config_format}"`
	Quiet    bool   `short:"q" help:"Suppress non-essential output"`
	Verbose  bool   `short:"v" help:"Enable verbose debug logging"`
	Endpoint string `help:"Control endpoint base URL" default:"${config_endpoint}"`

	Serve   ServeCmd   `cmd:"" help:"Run the control endpoint against a simulated editor host"`
	Refresh RefreshCmd `cmd:"" help:"Trigger an asset refresh and wait for the outcome"`
	Status  StatusCmd  `cmd:"" help:"Show control endpoint status"`
	Logs    LogsCmd    `cmd:"" help:"Fetch recent editor logs"`
	Errors  ErrorsCmd  `cmd:"" help:"Fetch recent Error/Exception logs"`
	Clear   ClearCmd   `cmd:"" help:"Clear the editor log buffer"`
	Config  ConfigCmd  `cmd:"" help:"Inspect configuration"`
}

// Globals carries cross-command state into every Run method
type Globals struct {
	Format   string
	Quiet    bool
	Verbose  bool
	Endpoint string
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
}

// NewGlobalsWithConfig merges parsed flags with config file values
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	format := c.Format
	if format == "" {
		// Agents pipe us; humans get a table
		if isatty.IsTerminal(os.Stdout.Fd()) {
			format = "text"
		} else {
			format = "ndjson"
		}
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = cfg.Defaults.Endpoint
	}
	return &Globals{
		Format:   format,
		Quiet:    c.Quiet || cfg.Quiet,
		Verbose:  c.Verbose || cfg.Verbose,
		Endpoint: endpoint,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Config:   cfg,
	}
}
