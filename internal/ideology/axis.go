// Package ideology holds the six-axis ideological vector model shared by
// every actor type, plus the category table that ties legislative topics to
// axes. Everything here is pure.
package ideology

import (
	"fmt"
	"strings"
)

// Axis is one of the six fixed ideological dimensions.
type Axis int

const (
	AxisEconomic Axis = iota
	AxisValues
	AxisEnvironment
	AxisRegional
	AxisInternational
	AxisSecurity
)

// AxisCount is the dimensionality of every vector in the system.
const AxisCount = 6

// Axes is the system-wide axis order. Serialisation, storage columns and
// array conversions all follow it.
var Axes = [AxisCount]Axis{
	AxisEconomic,
	AxisValues,
	AxisEnvironment,
	AxisRegional,
	AxisInternational,
	AxisSecurity,
}

var axisNames = [AxisCount]string{
	"economic",
	"values",
	"environment",
	"regional",
	"international",
	"security",
}

func (a Axis) String() string {
	if !a.IsValid() {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

func (a Axis) IsValid() bool {
	return a >= AxisEconomic && a <= AxisSecurity
}

// ParseAxis resolves an axis by its lower-case name.
func ParseAxis(s string) (Axis, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, a := range Axes {
		if axisNames[a] == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// MarshalText encodes the axis by name so JSON maps keyed by Axis stay readable.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
	return []byte(axisNames[a]), nil
}

func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
