package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidEyeColor = errors.New("model: invalid eye color")

type EyeColor string

const (
	EyeBlue  EyeColor = "blue"
	EyeGreen EyeColor = "green"
	EyeBrown EyeColor = "brown"
	EyeGray  EyeColor = "gray"
	EyeRed   EyeColor = "red"
)

const DefaultEyeColor = EyeBlue

// EyeColors is the fixed settings carousel order.
var EyeColors = []EyeColor{EyeBlue, EyeGreen, EyeBrown, EyeGray, EyeRed}

var eyeQuotes = map[EyeColor]string{
	EyeBlue:  "Ocean",
	EyeGreen: "Olive",
	EyeBrown: "Almond",
	EyeGray:  "Cloudy",
	EyeRed:   "incase you're a vampire",
}

func (c EyeColor) IsValid() bool {
	switch c {
	case EyeBlue, EyeGreen, EyeBrown, EyeGray, EyeRed:
		return true
	default:
		return false
	}
}

func (c EyeColor) Quote() string {
	return eyeQuotes[c]
}

func (c EyeColor) String() string { return string(c) }

func ParseEyeColor(raw string) (EyeColor, error) {
	c := EyeColor(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEyeColor, raw)
	}
	return c, nil
}

// EyeColorIndex returns the carousel position of c, or -1.
func EyeColorIndex(c EyeColor) int {
	for i, item := range EyeColors {
		if item == c {
			return i
		}
	}
	return -1
}

// EyeColorAt wraps i into the carousel, so negative indexes count from the end.
func EyeColorAt(i int) EyeColor {
	n := len(EyeColors)
	return EyeColors[((i%n)+n)%n]
}

func NextEyeColor(c EyeColor) EyeColor {
	i := EyeColorIndex(c)
	if i < 0 {
		return DefaultEyeColor
	}
	return EyeColorAt(i + 1)
}

func PrevEyeColor(c EyeColor) EyeColor {
	i := EyeColorIndex(c)
	if i < 0 {
		return DefaultEyeColor
	}
	return EyeColorAt(i - 1 + len(EyeColors))
}

type UserPreferences struct {
	EyeColor EyeColor
}

func DefaultUserPreferences() UserPreferences {
	return UserPreferences{EyeColor: DefaultEyeColor}
}

func (p UserPreferences) Validate() error {
	if !p.EyeColor.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEyeColor, p.EyeColor)
	}
	return nil
}
