package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Verify is the certificate verification setting. In the settings file it is
// either a boolean or the path of a CA bundle to verify against.
type Verify struct {
	Enabled bool
	CAFile  string
}

// UnmarshalYAML accepts true, false or a path string.
func (v *Verify) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("verify: expected boolean or path, got %s", kindName(node.Kind))
	}
	if node.Tag == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		*v = Verify{Enabled: b}
		return nil
	}
	return v.Decode(node.Value)
}

// Decode implements envconfig.Decoder for the VERIFY environment variable.
func (v *Verify) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*v = Verify{Enabled: true}
		return nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		*v = Verify{Enabled: b}
		return nil
	}
	*v = Verify{Enabled: true, CAFile: value}
	return nil
}

func (v Verify) String() string {
	switch {
	case !v.Enabled:
		return "disabled"
	case v.CAFile != "":
		return "ca_file:" + v.CAFile
	default:
		return "system"
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
