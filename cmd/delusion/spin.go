package main

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/delusion/pkg/math3d"
)

// spinAxis tracks an angle in degrees whose velocity decays to zero on a
// critically damped spring.
type spinAxis struct {
	Angle     float64
	Velocity  float64 // degrees per frame
	velSpring harmonica.Spring
	velAccel  float64
}

func newSpinAxis(fps int) spinAxis {
	return spinAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *spinAxis) update() {
	a.Angle += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Spin is the free rotation added on top of the model matrix by the Space
// key.
type Spin struct {
	Pitch, Yaw spinAxis
	fps        int
	rand       func() float64
}

// NewSpin creates a resting spin stepped fps times per second.
func NewSpin(fps int) *Spin {
	return &Spin{
		Pitch: newSpinAxis(fps),
		Yaw:   newSpinAxis(fps),
		fps:   fps,
		rand:  rand.Float64,
	}
}

// Kick adds a random impulse of up to ±impulse degrees per frame on each
// axis.
func (s *Spin) Kick(impulse float64) {
	s.Pitch.Velocity += (s.rand()*2 - 1) * impulse
	s.Yaw.Velocity += (s.rand()*2 - 1) * impulse
}

// Update advances one frame.
func (s *Spin) Update() {
	s.Pitch.update()
	s.Yaw.update()
}

// Resting reports whether the spin has settled.
func (s *Spin) Resting() bool {
	const eps = 1e-3
	return math.Abs(s.Pitch.Velocity) < eps && math.Abs(s.Yaw.Velocity) < eps
}

// Reset stops the spin and clears the accumulated angles.
func (s *Spin) Reset() {
	s.Pitch = newSpinAxis(s.fps)
	s.Yaw = newSpinAxis(s.fps)
}

// Matrix returns yaw·pitch as a model-space rotation.
func (s *Spin) Matrix() math3d.Mat4 {
	return math3d.ModelMatrix(math3d.AxisY(), s.Yaw.Angle, 1).
		Mul(math3d.ModelMatrix(math3d.AxisX(), s.Pitch.Angle, 1))
}
