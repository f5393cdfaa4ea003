package cli

import "fmt"

// RefreshCmd triggers an asset refresh and waits for its outcome
type RefreshCmd struct{}

// Run executes the refresh command
func (c *RefreshCmd) Run(globals *Globals) error {
	client := newControlClient(globals.Endpoint)

	resp, conflict, err := client.Refresh()
	if err != nil {
		return outputError(globals, "ENDPOINT_UNREACHABLE", err.Error())
	}
	if conflict {
		return outputError(globals, "REFRESH_PENDING", resp.Message)
	}

	if globals.Format == "ndjson" {
		return writeNDJSON(globals, "refresh", resp)
	}

	fmt.Fprintln(globals.Stdout, resp.Message)
	if resp.HasErrors {
		fmt.Fprintf(globals.Stdout, "%d error(s) during refresh:\n", resp.ErrorCount)
		for _, e := range resp.Errors {
			fmt.Fprintf(globals.Stdout, "  [%s] %s\n", e.Type, e.Message)
		}
	}
	return nil
}
