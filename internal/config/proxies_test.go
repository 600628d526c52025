package config

import (
	"reflect"
	"testing"
)

func TestProxies_Decode(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Proxies
	}{
		{"equals separator", "https=http://proxy:3128", Proxies{"https": "http://proxy:3128"}},
		{"colon separator", "https:http://proxy:3128", Proxies{"https": "http://proxy:3128"}},
		{"credentials keep their colons", "https=http://user:p@ss@proxy:8080", Proxies{"https": "http://user:p@ss@proxy:8080"}},
		{
			"two schemes",
			" http=http://proxy:3128 , HTTPS:http://u:p@proxy:3129,",
			Proxies{"http": "http://proxy:3128", "https": "http://u:p@proxy:3129"},
		},
		{"empty clears", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Proxies{"http": "http://from-file:1"}
			if err := p.Decode(tt.value); err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.value, err)
			}
			if !reflect.DeepEqual(p, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.value, p, tt.want)
			}
		})
	}
}

func TestProxies_DecodeErrors(t *testing.T) {
	for _, value := range []string{"https", "=http://proxy:3128", "https=", "http=http://ok:1,bogus"} {
		var p Proxies
		if err := p.Decode(value); err == nil {
			t.Errorf("Decode(%q) = %v, want error", value, p)
		}
	}
}
