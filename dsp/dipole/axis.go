package dipole

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// Axis identifies a Cartesian dipole component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the three Cartesian axes in x, y, z order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// ParseAxis converts a case-insensitive label ("x", "y" or "z") to an Axis.
func ParseAxis(label string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	default:
		return 0, fmt.Errorf("%w: dipole axis must be one of x, y, z: %q", core.ErrInvalidParameter, label)
	}
}

// String returns the lower-case axis label.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a is one of AxisX, AxisY or AxisZ.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Columns names the 0-indexed column positions of an input table.
type Columns struct {
	Time int `yaml:"time"`
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
	Z    int `yaml:"z"`
}

// DefaultColumns returns the reference layout: time, an unused column, then
// dipole x, y and z.
func DefaultColumns() Columns {
	return Columns{Time: 0, X: 2, Y: 3, Z: 4}
}

// Index returns the column holding the dipole component for a.
func (c Columns) Index(a Axis) (int, error) {
	switch a {
	case AxisX:
		return c.X, nil
	case AxisY:
		return c.Y, nil
	case AxisZ:
		return c.Z, nil
	default:
		return 0, fmt.Errorf("%w: unknown dipole axis %d", core.ErrInvalidParameter, int(a))
	}
}

// Validate checks that every column index is non-negative.
func (c Columns) Validate() error {
	for name, idx := range map[string]int{"time": c.Time, "x": c.X, "y": c.Y, "z": c.Z} {
		if idx < 0 {
			return fmt.Errorf("%w: %s column index must be >= 0: %d", core.ErrInvalidParameter, name, idx)
		}
	}
	return nil
}
