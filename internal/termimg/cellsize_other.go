//go:build !unix

package termimg

func getCellSize() (cellW, cellH int) {
	return defaultCellW, defaultCellH
}

func Columns() int {
	return 0
}
