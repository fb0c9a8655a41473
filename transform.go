package starbloom

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// translateAffine returns m followed by a translation in m's local space.
func translateAffine(m [6]float64, x, y float64) [6]float64 {
	return multiplyAffine(m, [6]float64{1, 0, 0, 1, x, y})
}

// rotateAffine returns m followed by a rotation (radians, clockwise in screen
// space) in m's local space.
func rotateAffine(m [6]float64, theta float64) [6]float64 {
	sin, cos := math.Sincos(theta)
	return multiplyAffine(m, [6]float64{cos, sin, -sin, cos, 0, 0})
}

// scaleAffine returns m followed by a uniform scale.
func scaleAffine(m [6]float64, s float64) [6]float64 {
	return multiplyAffine(m, [6]float64{s, 0, 0, s, 0, 0})
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// affineScale returns the mean linear scale factor of m, used to convert
// stroke widths and radii from local to device units.
func affineScale(m [6]float64) float64 {
	sx := math.Hypot(m[0], m[1])
	sy := math.Hypot(m[2], m[3])
	return (sx + sy) / 2
}
