// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through y0..y3 at x,
// where x in [0, 1] runs from y1 to y2. The curve passes through y1 and y2
// exactly and reproduces straight lines.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a := 0.5 * (3*(y1-y2) + y3 - y0)
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := 0.5 * (y2 - y0)

	return ((a*x+b)*x+c)*x + y1
}

// CubicInterpolateFrame interpolates every channel of four consecutive
// frames into dst. All slices must have len(dst) elements.
func CubicInterpolateFrame(dst, f0, f1, f2, f3 []float32, x float32) {
	for i := range dst {
		dst[i] = CubicInterpolate(f0[i], f1[i], f2[i], f3[i], x)
	}
}
