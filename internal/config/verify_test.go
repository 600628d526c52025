package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestVerify_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Verify
	}{
		{"true", "verify: true", Verify{Enabled: true}},
		{"false", "verify: false", Verify{Enabled: false}},
		{"path", "verify: proxy.cer", Verify{Enabled: true, CAFile: "proxy.cer"}},
		{"quoted path", `verify: "certs/ca.pem"`, Verify{Enabled: true, CAFile: "certs/ca.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Verify Verify `yaml:"verify"`
			}
			if err := yaml.Unmarshal([]byte(tt.doc), &out); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if out.Verify != tt.want {
				t.Errorf("Verify = %+v, want %+v", out.Verify, tt.want)
			}
		})
	}
}

func TestVerify_UnmarshalYAML_RejectsMapping(t *testing.T) {
	var out struct {
		Verify Verify `yaml:"verify"`
	}
	if err := yaml.Unmarshal([]byte("verify:\n  path: x\n"), &out); err == nil {
		t.Error("Unmarshal() expected error for mapping value")
	}
}

func TestVerify_Decode(t *testing.T) {
	tests := []struct {
		in   string
		want Verify
	}{
		{"", Verify{Enabled: true}},
		{"false", Verify{Enabled: false}},
		{"1", Verify{Enabled: true}},
		{"C:\\certs\\proxy.cer", Verify{Enabled: true, CAFile: "C:\\certs\\proxy.cer"}},
	}
	for _, tt := range tests {
		var v Verify
		if err := v.Decode(tt.in); err != nil {
			t.Fatalf("Decode(%q) error = %v", tt.in, err)
		}
		if v != tt.want {
			t.Errorf("Decode(%q) = %+v, want %+v", tt.in, v, tt.want)
		}
	}
}

func TestVerify_String(t *testing.T) {
	if got := (Verify{Enabled: true}).String(); got != "system" {
		t.Errorf("String() = %q", got)
	}
	if got := (Verify{}).String(); got != "disabled" {
		t.Errorf("String() = %q", got)
	}
	if got := (Verify{Enabled: true, CAFile: "a.pem"}).String(); got != "ca_file:a.pem" {
		t.Errorf("String() = %q", got)
	}
}
