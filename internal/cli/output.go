package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult summarizes one run for stdout
type OutputResult struct {
	Tool   string `json:"tool"`
	Output string `json:"output"`
	ICS    string `json:"ics,omitempty"`
	Items  int    `json:"count"`
	Unit   string `json:"unit"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeText(w io.Writer, result *OutputResult) error {
	if _, err := fmt.Fprintf(w, "Wrote %s (%d %s)\n", result.Output, result.Items, result.Unit); err != nil {
		return err
	}
	if result.ICS != "" {
		if _, err := fmt.Fprintf(w, "Wrote %s\n", result.ICS); err != nil {
			return err
		}
	}
	return nil
}
