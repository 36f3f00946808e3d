package radoneye

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var addressPattern = regexp.MustCompile(`^([0-9A-F]{2}:){5}[0-9A-F]{2}$`)

// Address is a bluetooth hardware address in its canonical AA:BB:CC:DD:EE:FF form.
type Address string

// ParseAddress uppercases s and checks it against the canonical pattern.
func ParseAddress(s string) (Address, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if !addressPattern.MatchString(upper) {
		return "", &Error{Kind: KindConfig, Err: errors.Errorf("invalid bluetooth address %q, expected AA:BB:CC:DD:EE:FF", s)}
	}
	return Address(upper), nil
}

func (a Address) String() string {
	return string(a)
}

// Key identifies a device among several by the last three octets of its
// address, e.g. AA:BB:CC:D7:21:A0 -> D7-21-A0.
func (a Address) Key() string {
	s := string(a)
	if len(s) < 8 {
		return strings.ReplaceAll(s, ":", "-")
	}
	return strings.ReplaceAll(s[len(s)-8:], ":", "-")
}
