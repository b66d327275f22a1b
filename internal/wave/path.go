package wave

import "github.com/vovakirdan/hyperwave/internal/rng"

// ensureSafePath walks from the middle column down the rows, clearing
// enemies within width-1 columns of the walker and then stepping it one
// column left or right. A step is taken only if the band stays clear of the
// grid edges. Hazards are left in place. It returns the walker's column for
// each row.
func ensureSafePath(columns [][]Tile, width int, src rng.Source) []int {
	cols := len(columns)
	if cols == 0 || len(columns[0]) == 0 {
		return nil
	}
	rows := len(columns[0])
	width = max(width, 1)

	path := make([]int, rows)
	current := cols / 2
	for row := 0; row < rows; row++ {
		path[row] = current
		clearBand(columns, row, current, width)

		step := 1
		if rng.Chance(src, 0.5) {
			step = -1
		}
		next := current + step
		if next >= width-1 && next < cols-(width-1) {
			current = next
		}
	}
	return path
}

func clearBand(columns [][]Tile, row, center, width int) int {
	cleared := 0
	for offset := -(width - 1); offset < width; offset++ {
		col := center + offset
		if col < 0 || col >= len(columns) {
			continue
		}
		if columns[col][row].IsEnemy() {
			columns[col][row] = Empty
			cleared++
		}
	}
	return cleared
}

// ClearPath re-applies the clearing along a recorded path and returns the
// number of enemies removed. It is zero for any generated pattern.
func ClearPath(columns [][]Tile, path []int, width int) int {
	width = max(width, 1)
	cleared := 0
	for row, center := range path {
		if len(columns) == 0 || row >= len(columns[0]) {
			break
		}
		cleared += clearBand(columns, row, center, width)
	}
	return cleared
}
