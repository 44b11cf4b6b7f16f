package domain

import (
	"encoding/json"
	"testing"
)

func TestIndexTemplate(t *testing.T) {
	body, err := IndexTemplate("sws-")
	if err != nil {
		t.Fatalf("IndexTemplate: %v", err)
	}

	var got struct {
		IndexPatterns []string                   `json:"index_patterns"`
		Mappings      map[string]json.RawMessage `json:"mappings"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.IndexPatterns) != 1 || got.IndexPatterns[0] != "sws-*" {
		t.Errorf("index_patterns = %v, want [sws-*]", got.IndexPatterns)
	}
	if _, ok := got.Mappings[DocumentType]; !ok {
		t.Errorf("mappings missing %q type", DocumentType)
	}
}

func TestTemplateName(t *testing.T) {
	if got := TemplateName("api-"); got != "api-template" {
		t.Errorf("TemplateName = %q", got)
	}
}
