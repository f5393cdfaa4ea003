package cli

// LogsCmd fetches recent editor logs
type LogsCmd struct {
	Count int `short:"n" help:"Number of entries to fetch" default:"50"`
}

// Run executes the logs command
func (c *LogsCmd) Run(globals *Globals) error {
	client := newControlClient(globals.Endpoint)

	resp, err := client.Logs(c.Count)
	if err != nil {
		return outputError(globals, "ENDPOINT_UNREACHABLE", err.Error())
	}

	if globals.Format == "ndjson" {
		return writeNDJSON(globals, "logs", resp)
	}
	return writeEntryTable(globals, resp.Logs)
}

// ErrorsCmd fetches recent Error/Exception logs
type ErrorsCmd struct{}

// Run executes the errors command
func (c *ErrorsCmd) Run(globals *Globals) error {
	client := newControlClient(globals.Endpoint)

	resp, err := client.Errors()
	if err != nil {
		return outputError(globals, "ENDPOINT_UNREACHABLE", err.Error())
	}

	if globals.Format == "ndjson" {
		return writeNDJSON(globals, "errors", resp)
	}
	return writeEntryTable(globals, resp.Logs)
}
