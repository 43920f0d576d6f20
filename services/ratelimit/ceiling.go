package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
)

// Ceiling is a tier's per-second request ceiling. The unbounded case is a
// distinct variant, never a numeric sentinel.
type Ceiling struct {
	unbounded bool
	perSecond int
}

func Unbounded() Ceiling {
	return Ceiling{unbounded: true}
}

func PerSecond(n int) Ceiling {
	return Ceiling{perSecond: n}
}

func (c Ceiling) IsUnbounded() bool {
	return c.unbounded
}

// PerSecondValue is only meaningful when the ceiling is bounded.
func (c Ceiling) PerSecondValue() int {
	return c.perSecond
}

func (c Ceiling) String() string {
	if c.unbounded {
		return "unbounded"
	}
	return strconv.Itoa(c.perSecond)
}

func (c Ceiling) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Ceiling) UnmarshalText(b []byte) error {
	return c.parse(string(b))
}

// ParseCeiling accepts an integer or the literal "unbounded".
func ParseCeiling(s string) (Ceiling, error) {
	var c Ceiling
	if err := c.parse(s); err != nil {
		return Ceiling{}, err
	}
	return c, nil
}

func (c *Ceiling) parse(s string) error {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "unbounded" {
		*c = Unbounded()
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid ceiling %q: want positive integer or \"unbounded\"", s)
	}
	*c = PerSecond(n)
	return nil
}
