// Package units provides shared constants and conversion for angle units
// and display timezones used by reports.
package units

import "math"

// Angle unit constants. Angles are computed in degrees.
const (
	Degrees = "deg"
	Radians = "rad"
)

// ValidUnits contains all valid angle unit values.
var ValidUnits = []string{Degrees, Radians}

// IsValid checks if the given unit is in the list of valid units.
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages.
func GetValidUnitsString() string {
	return "deg, rad"
}

// ConvertAngle converts an angle in degrees to the target units.
func ConvertAngle(deg float64, targetUnits string) float64 {
	switch targetUnits {
	case Radians:
		return deg * math.Pi / 180
	default:
		return deg // degrees, or unknown unit
	}
}
