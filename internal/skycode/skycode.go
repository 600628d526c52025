// Package skycode maps Weatherbit condition codes to the icon codes understood
// by the MSN weather gadget.
package skycode

import (
	"errors"
	"fmt"
)

// Code is a gadget sky code. Only the values below are ever produced.
type Code int

const (
	Thunderstorm Code = 1
	Snow         Code = 5
	Hail         Code = 6
	Rain         Code = 9
	Fog          Code = 19
	Cloudy       Code = 26
	PartlyCloudy Code = 29
	Clear        Code = 32
	FewShowers   Code = 35
)

func (c Code) String() string {
	switch c {
	case Thunderstorm:
		return "thunderstorm"
	case Snow:
		return "snow"
	case Hail:
		return "hail"
	case Rain:
		return "rain"
	case Fog:
		return "fog"
	case Cloudy:
		return "cloudy"
	case PartlyCloudy:
		return "partly_cloudy"
	case Clear:
		return "clear"
	case FewShowers:
		return "few_showers"
	default:
		return "unknown"
	}
}

// ErrUnmappedCode is matched by every lookup failure.
var ErrUnmappedCode = errors.New("unmapped condition code")

// UnmappedCodeError names the provider code that has no gadget equivalent.
type UnmappedCodeError struct {
	Code int
}

func (e *UnmappedCodeError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnmappedCode, e.Code)
}

func (e *UnmappedCodeError) Unwrap() error {
	return ErrUnmappedCode
}

var table = map[int]Code{
	200: Thunderstorm, 201: Thunderstorm, 202: Thunderstorm,
	230: Thunderstorm, 231: Thunderstorm, 232: Thunderstorm, 233: Thunderstorm,

	300: FewShowers, 301: FewShowers, 520: FewShowers,

	302: Rain, 500: Rain, 501: Rain, 502: Rain, 521: Rain, 522: Rain, 610: Rain, 900: Rain,

	511: Hail, 611: Hail, 612: Hail,

	600: Snow, 601: Snow, 602: Snow, 621: Snow, 622: Snow, 623: Snow,

	700: Fog, 711: Fog, 721: Fog, 731: Fog, 741: Fog, 751: Fog,

	800: Clear,

	801: PartlyCloudy, 802: PartlyCloudy, 803: PartlyCloudy,

	804: Cloudy,
}

// Lookup returns the sky code for a provider condition code. Codes outside the
// table fail with *UnmappedCodeError; there is no fallback icon.
func Lookup(providerCode int) (Code, error) {
	c, ok := table[providerCode]
	if !ok {
		return 0, &UnmappedCodeError{Code: providerCode}
	}
	return c, nil
}

// Known reports whether providerCode is in the table.
func Known(providerCode int) bool {
	_, ok := table[providerCode]
	return ok
}
