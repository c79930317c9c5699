package parser

// findColumnBounds returns the 1-based first and last columns holding a
// non-empty cell in any row, or (0, 0) when every cell is empty.
func findColumnBounds(rows [][]string) (minCol, maxCol int) {
	minCol, maxCol = -1, -1

	for _, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	if minCol < 0 {
		return 0, 0
	}
	return minCol + 1, maxCol + 1
}
