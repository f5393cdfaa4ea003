package cli

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/editorctl/internal/domain"
)

// writeNDJSON emits payload as a single JSON line tagged with a type field
func writeNDJSON(globals *Globals, typ string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	m["type"] = typ
	line, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(globals.Stdout, string(line))
	return err
}

// writeEntryTable renders wire log entries as a table for humans
func writeEntryTable(globals *Globals, entries []domain.WireLogEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(globals.Stdout, "No log entries")
		return nil
	}
	table := tablewriter.NewTable(globals.Stdout)
	table.Header("Severity", "Message")
	for _, e := range entries {
		table.Append(e.Type, e.Message)
	}
	return table.Render()
}
