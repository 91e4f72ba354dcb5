package perspective

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateHomography means the point correspondences do not define an
// invertible projective transform, for example because three destination
// points are collinear.
var ErrDegenerateHomography = errors.New("degenerate homography")

// collinearEps is the smallest accepted |cross product| for a corner triple.
const collinearEps = 1e-9

// Point is a 2-D position in pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad is four points ordered top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// Corners returns the corner quad of a width x height image, using the
// centers of the outermost pixels: (0,0), (w-1,0), (w-1,h-1), (0,h-1).
func Corners(width, height int) Quad {
	w := float64(width - 1)
	h := float64(height - 1)
	return Quad{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// Collinear reports whether any three of the four points lie on a line.
func (q Quad) Collinear() bool {
	triples := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	for _, t := range triples {
		a, b, c := q[t[0]], q[t[1]], q[t[2]]
		cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		if math.Abs(cross) < collinearEps {
			return true
		}
	}
	return false
}

// Homography is a 3x3 projective transform in row-major order.
type Homography [9]float64

// Identity is the identity transform.
var Identity = Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}

// FindHomography solves for the transform mapping each src[i] onto dst[i].
//
// The eight unknowns (h33 fixed to 1) are found from the 8x8 linear system
// given by the four correspondences. Returns ErrDegenerateHomography if
// either quad has three collinear points or the system is singular.
func FindHomography(src, dst Quad) (Homography, error) {
	if src.Collinear() {
		return Homography{}, fmt.Errorf("%w: source corners are collinear", ErrDegenerateHomography)
	}
	if dst.Collinear() {
		return Homography{}, fmt.Errorf("%w: destination corners are collinear", ErrDegenerateHomography)
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		b.SetVec(2*i, u)
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.SetVec(2*i+1, v)
	}

	// A Condition error still carries a solution; the checks below decide
	// whether it is usable.
	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Homography{}, fmt.Errorf("%w: %v", ErrDegenerateHomography, err)
		}
	}

	var out Homography
	for i := 0; i < 8; i++ {
		out[i] = h.AtVec(i)
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return Homography{}, fmt.Errorf("%w: singular system", ErrDegenerateHomography)
		}
	}
	out[8] = 1

	if d := out.Det(); math.Abs(d) < 1e-12 || math.IsNaN(d) {
		return Homography{}, fmt.Errorf("%w: determinant %g", ErrDegenerateHomography, d)
	}
	return out, nil
}

func (h Homography) dense() *mat.Dense {
	return mat.NewDense(3, 3, h[:])
}

// Det returns the determinant.
func (h Homography) Det() float64 {
	return mat.Det(h.dense())
}

// Inverse returns the inverse transform.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.dense()); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Homography{}, fmt.Errorf("%w: %v", ErrDegenerateHomography, err)
		}
	}
	var out Homography
	copy(out[:], inv.RawMatrix().Data)
	return out, nil
}

// Apply maps p through the transform. ok is false when p maps to infinity.
func (h Homography) Apply(p Point) (q Point, ok bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if w == 0 {
		return Point{}, false
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}
