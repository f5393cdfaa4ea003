package cli

import (
	"encoding/json"
	"errors"
	"fmt"
)

// outputError normalizes error emission across commands, respecting ndjson
// vs text formats so AI agents always get machine-readable failures.
func outputError(globals *Globals, code, message string) error {
	if globals != nil && globals.Format == "ndjson" {
		line := map[string]string{"type": "error", "code": code, "message": message}
		data, _ := json.Marshal(line)
		fmt.Fprintln(globals.Stdout, string(data))
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
	}
	return errors.New(message)
}
