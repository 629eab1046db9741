package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// render writes v in the selected format. YAML goes through the JSON encoding so
// the wire field names and custom encodings are kept.
func (a *app) render(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if a.output == "yaml" {
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	var indented any
	if err := json.Unmarshal(data, &indented); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	out, err := json.MarshalIndent(indented, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(out))
	return err
}
