package xmath

import (
	"math"
	"sort"
)

// EasingFunc maps t in [0, 1] to an eased value, usually also in [0, 1].
type EasingFunc func(t float64) float64

// Ease interpolates between a and b with the given easing.
func Ease(a, b, t float64, fn EasingFunc) float64 {
	return a + (b-a)*fn(t)
}

func Linear(t float64) float64 { return t }

func QuadIn(t float64) float64  { return t * t }
func QuadOut(t float64) float64 { return t * (2 - t) }

func QuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -2*t*t + 4*t - 1
}

func CubicIn(t float64) float64 { return t * t * t }

func CubicOut(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}

func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

func QuartIn(t float64) float64 { return t * t * t * t }

func QuartOut(t float64) float64 {
	u := t - 1
	return 1 - u*u*u*u
}

func SineIn(t float64) float64    { return 1 - math.Cos(t*math.Pi/2) }
func SineOut(t float64) float64   { return math.Sin(t * math.Pi / 2) }
func SineInOut(t float64) float64 { return 0.5 * (1 - math.Cos(t*math.Pi)) }

func CircIn(t float64) float64 { return 1 - math.Sqrt(1-t*t) }

func CircOut(t float64) float64 {
	u := t - 1
	return math.Sqrt(1 - u*u)
}

func ExpoIn(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}

func ExpoOut(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func BounceOut(t float64) float64 {
	const n, d = 7.5625, 2.75
	switch {
	case t < 1/d:
		return n * t * t
	case t < 2/d:
		t -= 1.5 / d
		return n*t*t + 0.75
	case t < 2.5/d:
		t -= 2.25 / d
		return n*t*t + 0.9375
	default:
		t -= 2.625 / d
		return n*t*t + 0.984375
	}
}

func BounceIn(t float64) float64 { return 1 - BounceOut(1-t) }

var easings = map[string]EasingFunc{
	"linear":     Linear,
	"quadIn":     QuadIn,
	"quadOut":    QuadOut,
	"quadInOut":  QuadInOut,
	"cubicIn":    CubicIn,
	"cubicOut":   CubicOut,
	"cubicInOut": CubicInOut,
	"quartIn":    QuartIn,
	"quartOut":   QuartOut,
	"sineIn":     SineIn,
	"sineOut":    SineOut,
	"sineInOut":  SineInOut,
	"circIn":     CircIn,
	"circOut":    CircOut,
	"expoIn":     ExpoIn,
	"expoOut":    ExpoOut,
	"bounceIn":   BounceIn,
	"bounceOut":  BounceOut,
}

// EasingByName looks up an easing by its camelCase name, e.g. "cubicOut".
func EasingByName(name string) (EasingFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// EasingNames lists the known easings, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PingPong folds t onto [0, 1] going up on even periods and back down on
// odd ones.
func PingPong(t float64) float64 {
	t = math.Mod(math.Abs(t), 2)
	if t > 1 {
		return 2 - t
	}
	return t
}
