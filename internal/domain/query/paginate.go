package query

// PageSpec selects one page of rows.  Index is 0-based.
type PageSpec struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// DefaultPage is the first page of ten rows.
var DefaultPage = PageSpec{Index: 0, Size: 10}

// Paginate returns items[index*size : index*size+size] clipped to the slice
// length.  Out-of-range pages, negative indices and non-positive sizes yield
// an empty window.  The window shares memory with items but has no spare
// capacity, so appending to it never overwrites items.
func Paginate[T any](items []T, index, size int) []T {
	if index < 0 || size <= 0 {
		return []T{}
	}
	start := index * size
	if start >= len(items) || start/size != index {
		return []T{}
	}
	end := start + size
	if end > len(items) || end < start {
		end = len(items)
	}
	return items[start:end:end]
}

// PageCount returns the number of pages needed for total rows.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

//Personal.AI order the ending
