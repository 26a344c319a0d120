// Package sitemap partitions the published-URL universe into bounded,
// deterministically ordered sitemap pages and renders them as XML.
//
// Page zero carries the handful of static pages plus every occupation-index
// and metro-index URL, then fills its remaining capacity with the
// highest-employment salary pages. Every later page is salary pages only.
package sitemap

// Slice is an offset/limit window into the salary-page universe, which is
// ordered by descending total employment with nulls last.
type Slice struct {
	Offset int64
	Limit  int64
}

// Partitioner computes page boundaries as a pure function of the page size
// and the current category counts. Two calls with the same inputs always
// produce the same boundaries.
type Partitioner struct {
	PageSize int64
}

// NewPartitioner creates a Partitioner. A non-positive page size falls back
// to 10000, the largest page that stays comfortably under crawler document
// size limits.
func NewPartitioner(pageSize int64) Partitioner {
	if pageSize <= 0 {
		pageSize = 10000
	}
	return Partitioner{PageSize: pageSize}
}

// NumPages returns how many sitemap pages cover fixedCount non-salary URLs
// plus salaryCount salary URLs. Always at least one, so an empty database
// still publishes a valid (if sparse) index.
func (p Partitioner) NumPages(fixedCount, salaryCount int64) int64 {
	total := fixedCount + salaryCount
	pages := (total + p.PageSize - 1) / p.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SalarySlice returns the window of salary pages belonging to the given
// page index. Page zero's quota is whatever capacity the fixed URLs leave
// over; later pages take a full page each, offset past everything page
// zero consumed. Adjacent pages never overlap and never leave a gap.
func (p Partitioner) SalarySlice(page, fixedCount int64) Slice {
	firstQuota := p.PageSize - fixedCount
	if firstQuota < 0 {
		firstQuota = 0
	}
	if page <= 0 {
		return Slice{Offset: 0, Limit: firstQuota}
	}
	return Slice{
		Offset: firstQuota + (page-1)*p.PageSize,
		Limit:  p.PageSize,
	}
}
