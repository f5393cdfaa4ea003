package cli

import "fmt"

// ClearCmd clears the editor log buffer
type ClearCmd struct{}

// Run executes the clear command
func (c *ClearCmd) Run(globals *Globals) error {
	client := newControlClient(globals.Endpoint)

	resp, err := client.Clear()
	if err != nil {
		return outputError(globals, "ENDPOINT_UNREACHABLE", err.Error())
	}

	if globals.Format == "ndjson" {
		return writeNDJSON(globals, "clear", resp)
	}
	fmt.Fprintln(globals.Stdout, resp.Message)
	return nil
}
