package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed schema/api_index_template.json
var indexTemplate []byte

// TemplateName is the name the index template is stored under for prefix.
func TemplateName(prefix string) string {
	return prefix + "template"
}

// IndexTemplate returns the template body with index_patterns pointed at
// every index under prefix.
func IndexTemplate(prefix string) ([]byte, error) {
	var tmpl map[string]json.RawMessage
	if err := json.Unmarshal(indexTemplate, &tmpl); err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	patterns, err := json.Marshal([]string{prefix + "*"})
	if err != nil {
		return nil, err
	}
	tmpl["index_patterns"] = patterns
	return json.Marshal(tmpl)
}
