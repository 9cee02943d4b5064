package frequency

import "math"

// DistanceField builds the radial distance of every frequency bin from the
// DC center of a rows x cols spectrum. The DC bin sits at (rows/2, cols/2),
// matching the convention produced by Shift, so the same field can be fed to
// every filter built for that shape.
func DistanceField(rows, cols int) [][]float64 {
	centerRow := rows / 2
	centerCol := cols / 2

	field := make([][]float64, rows)
	for u := 0; u < rows; u++ {
		field[u] = make([]float64, cols)
		for v := 0; v < cols; v++ {
			du := float64(u - centerRow)
			dv := float64(v - centerCol)
			field[u][v] = math.Sqrt(du*du + dv*dv)
		}
	}
	return field
}

// MaxDistance returns the largest radial distance present in a rows x cols
// distance field, which is the corner bin farthest from the DC center.
func MaxDistance(rows, cols int) float64 {
	centerRow := rows / 2
	centerCol := cols / 2

	du := float64(centerRow)
	if d := float64(rows - 1 - centerRow); d > du {
		du = d
	}
	dv := float64(centerCol)
	if d := float64(cols - 1 - centerCol); d > dv {
		dv = d
	}
	return math.Sqrt(du*du + dv*dv)
}
