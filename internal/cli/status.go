package cli

import "fmt"

// StatusCmd shows control endpoint status
type StatusCmd struct{}

// Run executes the status command
func (c *StatusCmd) Run(globals *Globals) error {
	client := newControlClient(globals.Endpoint)

	resp, err := client.Status()
	if err != nil {
		return outputError(globals, "ENDPOINT_UNREACHABLE", err.Error())
	}

	if globals.Format == "ndjson" {
		return writeNDJSON(globals, "status", resp)
	}

	fmt.Fprintf(globals.Stdout, "Endpoint:      %s\n", globals.Endpoint)
	fmt.Fprintf(globals.Stdout, "Running:       %t\n", resp.Running)
	fmt.Fprintf(globals.Stdout, "Port:          %d\n", resp.Port)
	fmt.Fprintf(globals.Stdout, "Buffered logs: %d\n", resp.BufferedLogs)
	fmt.Fprintf(globals.Stdout, "Errors:        %d\n", resp.Errors)
	fmt.Fprintf(globals.Stdout, "Pending:       %t\n", resp.Pending)
	fmt.Fprintf(globals.Stdout, "Uptime:        %ds\n", resp.UptimeSeconds)
	return nil
}
