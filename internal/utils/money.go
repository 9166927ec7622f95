package utils

import "math"

// Round2 rounds a monetary amount to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round8 rounds an asset quantity to 8 decimal places
func Round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
