package sitemap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumPages(t *testing.T) {
	t.Parallel()

	p := NewPartitioner(10000)

	tests := []struct {
		name        string
		fixedCount  int64
		salaryCount int64
		want        int64
	}{
		{"empty universe still publishes one page", 0, 0, 1},
		{"everything fits on page zero", 1219, 5000, 1},
		{"exactly one page", 1219, 8781, 1},
		{"one row over", 1219, 8782, 2},
		{"production scale", 1219, 138000, 14},
		{"exact multiple", 0, 30000, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, p.NumPages(tc.fixedCount, tc.salaryCount))
		})
	}
}

func TestSalarySlicePageZeroAbsorbsFixedPages(t *testing.T) {
	t.Parallel()

	p := NewPartitioner(10000)
	require.Equal(t, Slice{Offset: 0, Limit: 8781}, p.SalarySlice(0, 1219))
	require.Equal(t, Slice{Offset: 8781, Limit: 10000}, p.SalarySlice(1, 1219))
	require.Equal(t, Slice{Offset: 18781, Limit: 10000}, p.SalarySlice(2, 1219))
}

func TestSalarySliceFixedOverflowClampsToZero(t *testing.T) {
	t.Parallel()

	// More fixed URLs than one page holds: page zero carries no salary
	// rows and page one starts the salary universe from the top.
	p := NewPartitioner(100)
	require.Equal(t, Slice{Offset: 0, Limit: 0}, p.SalarySlice(0, 150))
	require.Equal(t, Slice{Offset: 0, Limit: 100}, p.SalarySlice(1, 150))
}

func TestPartitionCoversUniverseExactlyOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pageSize    int64
		fixedCount  int64
		salaryCount int64
	}{
		{"no salary rows", 10000, 1219, 0},
		{"one salary row", 10000, 1219, 1},
		{"one short of page zero quota", 10000, 1219, 8780},
		{"exactly page zero quota", 10000, 1219, 8781},
		{"one past page zero quota", 10000, 1219, 8782},
		{"exact page boundary", 10000, 1219, 28781},
		{"production scale", 10000, 1219, 137000},
		{"no fixed pages", 10000, 0, 25000},
		{"tiny pages", 7, 3, 40},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := NewPartitioner(tc.pageSize)
			numPages := p.NumPages(tc.fixedCount, tc.salaryCount)

			var covered int64
			for page := int64(0); page < numPages; page++ {
				slice := p.SalarySlice(page, tc.fixedCount)

				// Contiguous: each page starts where the last ended.
				require.Equal(t, covered, slice.Offset, "page %d offset", page)

				rows := slice.Limit
				if slice.Offset+rows > tc.salaryCount {
					rows = tc.salaryCount - slice.Offset
				}
				if rows < 0 {
					rows = 0
				}
				covered += rows

				urls := rows
				if page == 0 {
					urls += tc.fixedCount
				}
				require.LessOrEqual(t, urls, tc.pageSize, "page %d over capacity", page)
			}

			// Union of all pages is the full universe, each row once.
			require.Equal(t, tc.salaryCount, covered)
		})
	}
}

func TestPartitionIsDeterministic(t *testing.T) {
	t.Parallel()

	p := NewPartitioner(10000)
	for page := int64(0); page < 5; page++ {
		require.Equal(t, p.SalarySlice(page, 1219), p.SalarySlice(page, 1219))
	}
}
