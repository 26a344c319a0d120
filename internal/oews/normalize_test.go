package oews

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"suppressed wage", "*", nil},
		{"suppressed employment", "**", nil},
		{"top-coded", "#", nil},
		{"garbage", "n/a", nil},
		{"plain", "55000", fp(55000)},
		{"thousands separators", "1,234,567", fp(1234567)},
		{"decimal", "28.85", fp(28.85)},
		{"zero is zero not nil", "0", fp(0)},
		{"padded", " 100 ", fp(100)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseNumber(tc.raw)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *tc.want, *got)
		})
	}
}

// A suppressed cell and a literal zero are both score-negative but must
// remain distinguishable: nil stays nil, zero stays zero.
func TestNullVersusZero(t *testing.T) {
	t.Parallel()

	suppressed := ParseNumber("*")
	zero := ParseNumber("0")

	require.Nil(t, suppressed)
	require.NotNil(t, zero)
	require.Equal(t, 0.0, *zero)

	rec := Record{AMean: suppressed}
	require.Equal(t, 0.0, Score(rec))
	rec = Record{AMean: zero}
	require.Equal(t, 0.0, Score(rec))
}

func upperCells() map[string]string {
	return map[string]string{
		"OCC_CODE":   "15-1252",
		"OCC_TITLE":  "Software Developers",
		"OCC_GROUP":  "detailed",
		"AREA":       "35620",
		"AREA_TITLE": "New York-Newark-Jersey City, NY-NJ-PA",
		"TOT_EMP":    "1,250",
		"H_MEAN":     "28.85",
		"A_MEAN":     "60,000",
		"A_MEDIAN":   "*",
		"A_PCT10":    "30000",
		"A_PCT25":    "40000",
		"A_PCT75":    "70000",
		"A_PCT90":    "90000",
	}
}

func TestNormalizeUppercaseRow(t *testing.T) {
	t.Parallel()

	adapter, err := DetectAdapter([]string{"AREA", "AREA_TITLE", "OCC_CODE", "OCC_TITLE"})
	require.NoError(t, err)

	rec, ok := Normalize(adapter(upperCells()))
	require.True(t, ok)
	require.Equal(t, "15-1252", rec.OccCode)
	require.Equal(t, "35620", rec.AreaCode)
	require.Equal(t, "detailed", rec.OccGroup)
	require.NotNil(t, rec.TotEmp)
	require.Equal(t, 1250.0, *rec.TotEmp)
	require.NotNil(t, rec.AMean)
	require.Equal(t, 60000.0, *rec.AMean)
	require.Nil(t, rec.AMedian, "suppressed median must normalize to nil")
}

func TestNormalizeLowercaseRow(t *testing.T) {
	t.Parallel()

	adapter, err := DetectAdapter([]string{"area_code", "area_title", "occ_code", "occ_title", "o_group"})
	require.NoError(t, err)

	rec, ok := Normalize(adapter(map[string]string{
		"occ_code":   "29-1141",
		"occ_title":  "Registered Nurses",
		"o_group":    "detailed",
		"area_code":  "16980",
		"area_title": "Chicago-Naperville-Elgin, IL-IN-WI",
		"tot_emp":    "88,230",
		"a_median":   "78,000",
	}))
	require.True(t, ok)
	require.Equal(t, "29-1141", rec.OccCode)
	require.Equal(t, "16980", rec.AreaCode)
	require.Equal(t, "detailed", rec.OccGroup)
	require.NotNil(t, rec.AMedian)
	require.Equal(t, 78000.0, *rec.AMedian)
	require.Nil(t, rec.HMean)
}

func TestNormalizeRejectsRowsWithoutKeys(t *testing.T) {
	t.Parallel()

	adapter, err := DetectAdapter([]string{"OCC_CODE"})
	require.NoError(t, err)

	cells := upperCells()
	delete(cells, "OCC_CODE")
	_, ok := Normalize(adapter(cells))
	require.False(t, ok)

	cells = upperCells()
	delete(cells, "AREA")
	_, ok = Normalize(adapter(cells))
	require.False(t, ok)
}

func TestDetailedFilter(t *testing.T) {
	t.Parallel()

	adapter, err := DetectAdapter([]string{"OCC_CODE"})
	require.NoError(t, err)

	cells := upperCells()
	require.True(t, Detailed(adapter(cells)))

	cells["OCC_GROUP"] = "major"
	require.False(t, Detailed(adapter(cells)))
}

func TestDetectAdapterUnknownHeader(t *testing.T) {
	t.Parallel()

	_, err := DetectAdapter([]string{"foo", "bar"})
	require.Error(t, err)
}
