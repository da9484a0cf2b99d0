package viz

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/switchctl/internal/integrators"
)

// PhasePortrait draws x2 against x1 on a width x height character canvas.
// The initial state is marked 'o' and the terminal state 'x'; the axes are
// drawn when the origin, the target of the penalty, is in view.
func PhasePortrait(tr *integrators.Trajectory, width, height int) string {
	if tr == nil || tr.Len() == 0 || width < 2 || height < 2 {
		return ""
	}
	xs, ys := tr.Column(0), tr.Column(1)

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(x, y float64) (row, col int) {
		col = int((x - minX) / rangeX * float64(width-1))
		row = height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col
	}

	if minX <= 0 && maxX >= 0 {
		_, col := cell(0, minY)
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row, _ := cell(minX, 0)
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for i := range xs {
		row, col := cell(xs[i], ys[i])
		canvas[row][col] = '•'
	}
	row, col := cell(xs[0], ys[0])
	canvas[row][col] = 'o'
	row, col = cell(xs[len(xs)-1], ys[len(ys)-1])
	canvas[row][col] = 'x'

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by a tenth of its range on both sides.
func pad(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - 0.1*r, hi + 0.1*r
}
