package browser

// MaxWindow is the largest number of numbered page buttons shown at once.
const MaxWindow = 7

// PageInfo is the pagination metadata exposed to renderers.
// RangeStart and RangeEnd are 1-based and inclusive; both are 0 when empty.
type PageInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	RangeStart  int  `json:"rangeStart"`
	RangeEnd    int  `json:"rangeEnd"`
	HasPrev     bool `json:"hasPrev"`
	HasNext     bool `json:"hasNext"`
}

// ControlKind identifies an element of the page window.
type ControlKind string

const (
	ControlPage     ControlKind = "page"
	ControlFirst    ControlKind = "first"
	ControlLast     ControlKind = "last"
	ControlEllipsis ControlKind = "ellipsis"
)

// Control is one rendered element of the page window. Page is 0 for an
// ellipsis.
type Control struct {
	Kind    ControlKind `json:"kind"`
	Page    int         `json:"page,omitempty"`
	Current bool        `json:"current,omitempty"`
}

// TotalPages returns ceil(count/size), or 0 when there is nothing to page.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ClampPage keeps page inside [1, max(total, 1)].
func ClampPage(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Slice returns the records visible on the given 1-based page. Out-of-range
// pages yield an empty slice.
func Slice[T any](records []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(records) {
		return nil
	}
	end := min(start+size, len(records))
	return records[start:end]
}

// Paginate computes the metadata for a page of count records.
func Paginate(count, page, size int) PageInfo {
	total := TotalPages(count, size)
	page = ClampPage(page, total)
	info := PageInfo{
		CurrentPage: page,
		TotalPages:  total,
		TotalCount:  max(count, 0),
	}
	if total == 0 {
		return info
	}
	info.RangeStart = (page-1)*size + 1
	info.RangeEnd = min(page*size, count)
	info.HasPrev = page > 1
	info.HasNext = page < total
	return info
}

// Window lays out the page buttons around the current page: at most
// MaxWindow numbered buttons starting three before the current page, with
// jump-to-first/last controls and ellipses when the window does not reach
// the ends.
func Window(current, total int) []Control {
	if total <= 0 {
		return nil
	}
	current = ClampPage(current, total)
	start := max(1, current-3)
	end := min(total, start+MaxWindow-1)

	var controls []Control
	if start > 1 {
		controls = append(controls, Control{Kind: ControlFirst, Page: 1})
		if start > 2 {
			controls = append(controls, Control{Kind: ControlEllipsis})
		}
	}
	for p := start; p <= end; p++ {
		controls = append(controls, Control{Kind: ControlPage, Page: p, Current: p == current})
	}
	if end < total {
		if end < total-1 {
			controls = append(controls, Control{Kind: ControlEllipsis})
		}
		controls = append(controls, Control{Kind: ControlLast, Page: total})
	}
	return controls
}
