package path

import "math"

// Transforms return new paths; the receiver is never mutated, matching
// the value semantics of the rest of the kernel.

// Translate returns the path moved by (dx, dy, dz).
func (p *Path) Translate(dx, dy, dz float64) *Path {
	out := clone(p)
	for i := range out.X {
		out.X[i] += dx
		out.Y[i] += dy
		out.Z[i] += dz
	}
	return out
}

// Rotate returns the path rotated about the z-axis through the origin
// by the given angle in radians.
func (p *Path) Rotate(angle float64) *Path {
	sin, cos := math.Sincos(angle)
	out := clone(p)
	for i := range out.X {
		x, y := out.X[i], out.Y[i]
		out.X[i] = x*cos - y*sin
		out.Y[i] = x*sin + y*cos
	}
	return out
}

// Scale returns the path scaled by s about the origin in all three axes.
func (p *Path) Scale(s float64) *Path {
	out := clone(p)
	for i := range out.X {
		out.X[i] *= s
		out.Y[i] *= s
		out.Z[i] *= s
	}
	return out
}

func clone(p *Path) *Path {
	out := &Path{
		X: make([]float64, len(p.X)),
		Y: make([]float64, len(p.Y)),
		Z: make([]float64, len(p.Z)),
	}
	copy(out.X, p.X)
	copy(out.Y, p.Y)
	copy(out.Z, p.Z)
	return out
}
