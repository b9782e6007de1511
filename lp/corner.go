// Package lp evaluates a two-variable profit objective at the corner points
// of a textbook production-planning region and selects the best one.
//
// The region is not derived from constraints: its corners are the origin,
// (0, Y2) and (X3, 0), with Y2 and X3 supplied by the caller.
package lp

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Point is a corner of the feasible region.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Objective holds the per-unit profit of each product: Z = C1*x + C2*y.
type Objective struct {
	C1 float64 `json:"c1" mapstructure:"c1"`
	C2 float64 `json:"c2" mapstructure:"c2"`
}

// Value returns Z at p.
func (o Objective) Value(p Point) float64 {
	return floats.Dot([]float64{o.C1, o.C2}, []float64{p.X, p.Y})
}

// Input is one evaluation request.
type Input struct {
	Objective `mapstructure:",squash"`
	Y2        float64 `json:"y2" mapstructure:"y2"`
	X3        float64 `json:"x3" mapstructure:"x3"`
}

// DefaultInput is the worked example the calculator opens with.
func DefaultInput() Input {
	return Input{Objective: Objective{C1: 40, C2: 60}, Y2: 33.33, X3: 50.0}
}

// Corners returns P1 = (0, 0), P2 = (0, Y2) and P3 = (X3, 0) in evaluation order.
func (in Input) Corners() [3]Point {
	return [3]Point{{X: 0, Y: 0}, {X: 0, Y: in.Y2}, {X: in.X3, Y: 0}}
}

// Vertex is a corner together with its objective value.
type Vertex struct {
	Point Point   `json:"point"`
	Z     float64 `json:"z"`
}

// Result is the outcome of Evaluate.
type Result struct {
	Vertices [3]Vertex `json:"vertices"`
	// Best indexes Vertices.
	Best int `json:"best"`
}

// Optimal returns the selected vertex.
func (r Result) Optimal() Vertex { return r.Vertices[r.Best] }

// Evaluate computes Z at each corner and picks the maximum. On an exact tie
// the corner listed first wins. Any real input is accepted.
func Evaluate(in Input) Result {
	var res Result
	z := make([]float64, 0, len(res.Vertices))
	for i, p := range in.Corners() {
		res.Vertices[i] = Vertex{Point: p, Z: in.Objective.Value(p)}
		z = append(z, res.Vertices[i].Z)
	}
	res.Best = floats.MaxIdx(z)
	return res
}
