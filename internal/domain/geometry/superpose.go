package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MinSuperposePairs is the smallest number of point pairs that fixes a
// rigid transform.
const MinSuperposePairs = 3

// ErrTooFewPairs is returned when fewer than MinSuperposePairs pairs are given.
var ErrTooFewPairs = errors.New("too few point pairs for superposition")

// Transform is a proper rotation followed by a translation.
type Transform struct {
	Rotation    [3][3]float64
	Translation Vec3
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Rotation: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Apply maps a single point.
func (t Transform) Apply(v Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = t.Rotation[i][0]*v[0] + t.Rotation[i][1]*v[1] + t.Rotation[i][2]*v[2] + t.Translation[i]
	}
	return out
}

// ApplyAll maps points into a new slice. The input is left untouched.
func (t Transform) ApplyAll(points []Vec3) []Vec3 {
	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = t.Apply(p)
	}
	return out
}

// Superpose finds the rigid transform that moves mobile onto fixed with the
// least RMSD (Kabsch). Point i of mobile is paired with point i of fixed;
// the longer list is truncated to the shorter one. It returns the transform
// and the RMSD after superposition.
func Superpose(fixed, mobile []Vec3) (Transform, float64, error) {
	n := min(len(fixed), len(mobile))
	if n < MinSuperposePairs {
		return Transform{}, 0, fmt.Errorf("%w: have %d, need %d", ErrTooFewPairs, n, MinSuperposePairs)
	}
	fixed, mobile = fixed[:n], mobile[:n]

	cf := Centroid(fixed)
	cm := Centroid(mobile)

	// Covariance of the centred sets, mobile^T * fixed.
	h := mat.NewDense(3, 3, nil)
	for k := 0; k < n; k++ {
		m := mobile[k].Sub(cm)
		f := fixed[k].Sub(cf)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				h.Set(i, j, h.At(i, j)+m[i]*f[j])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return Transform{}, 0, errors.New("superposition: SVD did not converge")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var r mat.Dense
	r.Mul(&v, u.T())
	if mat.Det(&r) < 0 {
		// Reflection: flip the axis of the smallest singular value.
		for i := 0; i < 3; i++ {
			v.Set(i, 2, -v.At(i, 2))
		}
		r.Mul(&v, u.T())
	}

	var t Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.Rotation[i][j] = r.At(i, j)
		}
	}
	rotated := Transform{Rotation: t.Rotation}.Apply(cm)
	t.Translation = cf.Sub(rotated)

	return t, RMSD(fixed, t.ApplyAll(mobile)), nil
}
