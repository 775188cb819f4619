package pagination

const (
	// DefaultPage is the first page; pages are 1-based.
	DefaultPage = 1
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
)

// Params holds offset pagination inputs from controllers or view-models.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Page is the envelope returned by every paginated query.
type Page[T any] struct {
	Data       []T   `json:"data"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// Normalize enforces defaults and the maximum page size.
func Normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip for the normalized params.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.PageSize
}

// TotalPages returns ceil(total/pageSize), or 0 when pageSize is not positive.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// NewPage builds the envelope, trimming data so it never exceeds the page size.
func NewPage[T any](data []T, total int64, p Params) Page[T] {
	p = Normalize(p)
	if data == nil {
		data = []T{}
	}
	if len(data) > p.PageSize {
		data = data[:p.PageSize]
	}
	return Page[T]{
		Data:       data,
		TotalCount: total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: TotalPages(total, p.PageSize),
	}
}

// Empty returns an envelope with no rows and a zero total.
func Empty[T any](p Params) Page[T] {
	return NewPage[T](nil, 0, p)
}

// PastEnd reports whether the requested page starts after the last row.
func PastEnd(total int64, p Params) bool {
	return int64(p.Offset()) >= total
}

// Map converts the rows of a page while keeping its counters.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(page.Data))
	for _, row := range page.Data {
		out = append(out, fn(row))
	}
	return Page[U]{
		Data:       out,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
