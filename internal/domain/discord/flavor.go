package discord

import (
	"errors"
	"fmt"
	"strings"
)

// Flavor is the Discord release channel BetterDiscord is injected into.
type Flavor string

const (
	// FlavorCanary targets Discord Canary. It is the default.
	FlavorCanary Flavor = "canary"
	// FlavorPTB targets Discord PTB (public test build).
	FlavorPTB Flavor = "ptb"
)

// ErrUnknownFlavor is returned when a flavor outside the closed set is requested.
var ErrUnknownFlavor = errors.New("unknown injection type")

// Flavors lists every accepted flavor, default first.
func Flavors() []Flavor {
	return []Flavor{FlavorCanary, FlavorPTB}
}

// ParseFlavor converts user input into a Flavor.
func ParseFlavor(s string) (Flavor, error) {
	candidate := Flavor(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range Flavors() {
		if f == candidate {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w %q, expected one of %s", ErrUnknownFlavor, s, flavorList())
}

// String implements pflag.Value.
func (f *Flavor) String() string {
	if f == nil || *f == "" {
		return string(FlavorCanary)
	}

	return string(*f)
}

// Set implements pflag.Value.
func (f *Flavor) Set(s string) error {
	parsed, err := ParseFlavor(s)
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Type implements pflag.Value.
func (*Flavor) Type() string {
	return "canary|ptb"
}

func flavorList() string {
	names := make([]string, 0, len(Flavors()))
	for _, f := range Flavors() {
		names = append(names, string(f))
	}

	return strings.Join(names, ", ")
}
