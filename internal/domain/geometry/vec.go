// Package geometry holds the coordinate math behind contact analysis:
// a k-d tree for radius queries and least-squares rigid superposition.
package geometry

import (
	"fmt"
	"math"
)

// Vec3 is a point or displacement in Cartesian space, in Angstroms.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// SqDist returns the squared Euclidean distance between v and o.
func (v Vec3) SqDist(o Vec3) float64 {
	d := v.Sub(o)
	return d.Dot(d)
}

func (v Vec3) Dist(o Vec3) float64 { return math.Sqrt(v.SqDist(o)) }

func (v Vec3) String() string {
	return fmt.Sprintf("%0.3f %0.3f %0.3f", v[0], v[1], v[2])
}

// Centroid returns the mean of points. The centroid of no points is the origin.
func Centroid(points []Vec3) Vec3 {
	var c Vec3
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(points)))
}

// RMSD returns the root-mean-square deviation between paired points.
// Only the shared prefix of a and b is compared.
func RMSD(a, b []Vec3) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i].SqDist(b[i])
	}
	return math.Sqrt(sum / float64(n))
}
