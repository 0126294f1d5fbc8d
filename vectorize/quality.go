package vectorize

import (
	"errors"
	"fmt"
	"strings"
)

// Quality names a vectorization preset. Higher qualities follow the
// image more closely at the cost of more vertices, more strokes and a
// longer plot.
type Quality int

const (
	Low Quality = iota
	Medium
	High
	Ultra
)

var qualityNames = [...]string{"low", "medium", "high", "ultra"}

// Qualities lists every preset, fastest first.
var Qualities = []Quality{Low, Medium, High, Ultra}

// ErrUnknownQuality is returned by ParseQuality for names outside the preset table.
var ErrUnknownQuality = errors.New("unknown quality")

func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// ParseQuality returns the preset with the given (case-insensitive) name.
func ParseQuality(s string) (Quality, error) {
	for i, n := range qualityNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q (want one of %s)", ErrUnknownQuality, s, strings.Join(qualityNames[:], ", "))
}

// Set implements pflag.Value.
func (q *Quality) Set(s string) error {
	v, err := ParseQuality(s)
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// Type implements pflag.Value.
func (q *Quality) Type() string { return "quality" }

// Profile holds the tuning constants of one quality preset.
type Profile struct {
	Tolerance float64 // Douglas-Peucker tolerance, pixels
	Blur      int     // Gaussian kernel size, 0 for none
	Morph     int     // closing/opening kernel size, 0 for none
	MinArea   float64 // smallest contour area kept, square pixels
}

var profiles = [...]Profile{
	Low:    {Tolerance: 3.0, Blur: 0, Morph: 1, MinArea: 20},
	Medium: {Tolerance: 2.0, Blur: 0, Morph: 1, MinArea: 10},
	High:   {Tolerance: 1.0, Blur: 3, Morph: 2, MinArea: 5},
	Ultra:  {Tolerance: 0.5, Blur: 5, Morph: 2, MinArea: 3},
}

// Profile returns the tuning constants for q.
func (q Quality) Profile() Profile {
	if q < 0 || int(q) >= len(profiles) {
		return profiles[Medium]
	}
	return profiles[q]
}
