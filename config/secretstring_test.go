package config

import (
	"encoding/json"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func TestSecretString_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		input    SecretString
		wantRaw  string
		wantJSON string
		wantYAML string
	}{
		{"empty", "", "null", "null", "null\n"},
		{"short", "x", `"` + SecretStringValue + `"`, `"\u003csecret\u003e"`, SecretStringValue + "\n"},
		{"seed", "0b8e41f7-7c53-4a7f-a2b1-3f2f1d2c9a11", `"` + SecretStringValue + `"`, `"\u003csecret\u003e"`, SecretStringValue + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.input.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(raw) != tt.wantRaw {
				t.Errorf("MarshalJSON() = %s, want %s", raw, tt.wantRaw)
			}

			// encoding/json escapes HTML characters produced by marshalers
			j, err := json.Marshal(tt.input)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(j) != tt.wantJSON {
				t.Errorf("json = %s, want %s", j, tt.wantJSON)
			}

			y, err := yaml.Marshal(tt.input)
			if err != nil {
				t.Fatalf("yaml.Marshal() error = %v", err)
			}
			if string(y) != tt.wantYAML {
				t.Errorf("yaml = %q, want %q", y, tt.wantYAML)
			}
		})
	}
}

func TestSecretString_InStruct(t *testing.T) {
	section := ObfuscationConfig{Seed: "hunter2", Prefix: "_"}

	j, err := json.Marshal(section)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	y, err := yaml.Marshal(section)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	for _, out := range []string{string(j), string(y)} {
		if strings.Contains(out, "hunter2") {
			t.Errorf("secret leaked: %s", out)
		}
	}
}

func TestSecretString_Unmarshal(t *testing.T) {
	var section ObfuscationConfig
	if err := yaml.Unmarshal([]byte("seed: hunter2\n"), &section); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if string(section.Seed) != "hunter2" {
		t.Errorf("Seed = %q, want %q", section.Seed, "hunter2")
	}
}
