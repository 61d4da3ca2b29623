package help

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestQuickstartYAML_Parses(t *testing.T) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(QuickstartYAML), &doc); err != nil {
		t.Fatalf("QuickstartYAML is not valid YAML: %v", err)
	}
	for _, key := range []string{"commands", "tokenizing", "html_mode", "exit_codes"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing section %q", key)
		}
	}
}
