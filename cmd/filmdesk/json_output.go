package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"filmdesk/internal/catalog"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

type submitResultJSON struct {
	State     string        `json:"state"`
	Mode      string        `json:"mode"`
	ID        string        `json:"id,omitempty"`
	Multipart bool          `json:"multipart"`
	Alerts    []string      `json:"alerts"`
	Work      *catalog.Work `json:"work,omitempty"`
}

type latestWorkJSON struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Type   string          `json:"type"`
	Year   string          `json:"year,omitempty"`
	Rating *catalog.Rating `json:"rating"`
}

type sessionJSON struct {
	SessionID string `json:"sessionId"`
	Access    string `json:"access"`
	Granted   bool   `json:"granted"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Token     bool   `json:"hasToken"`
}
