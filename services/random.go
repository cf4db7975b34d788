package services

import "math/rand/v2"

// RandomSource drives the weekly draw. Tests substitute a scripted sequence.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

func (globalRandom) Intn(n int) int { return rand.IntN(n) }

func NewRandomSource() RandomSource {
	return globalRandom{}
}
