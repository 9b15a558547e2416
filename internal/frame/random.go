package frame

import (
	"math"

	"github.com/brianvoe/gofakeit/v7"
)

// Source produces uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a seeded faker. A zero seed picks a random one.
func NewSource(seed uint64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

// Normal draws a standard normal value (Box-Muller).
func Normal(src Source) float64 {
	u1 := src.Float64()
	for u1 == 0 {
		u1 = src.Float64()
	}
	u2 := src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Random builds a rows x len(names) frame of standard normal values.
func Random(src Source, rows int, names ...string) *Frame {
	f := New(names...)
	for r := 0; r < rows; r++ {
		row := make([]Value, len(names))
		for c := range row {
			row[c] = Float(Normal(src))
		}
		_ = f.AddRow(row...)
	}
	return f
}

// Uniform builds a rows x len(names) frame of values in [0, scale).
func Uniform(src Source, rows int, scale float64, names ...string) *Frame {
	f := New(names...)
	for r := 0; r < rows; r++ {
		row := make([]Value, len(names))
		for c := range row {
			row[c] = Float(src.Float64() * scale)
		}
		_ = f.AddRow(row...)
	}
	return f
}
