package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestOccupationBySlugFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, occ_code, occ_title, occ_group, slug, is_indexable").
		WithArgs("software-developers").
		WillReturnRows(pgxmock.NewRows([]string{"id", "occ_code", "occ_title", "occ_group", "slug", "is_indexable"}).
			AddRow(int64(7), "15-1252", "Software Developers", "detailed", "software-developers", true))

	occ, err := store.OccupationBySlug(context.Background(), "software-developers")
	require.NoError(t, err)
	require.Equal(t, int64(7), occ.ID)
	require.Equal(t, "15-1252", occ.Code)
	require.True(t, occ.Indexable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupationBySlugNotFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, occ_code, occ_title, occ_group, slug, is_indexable").
		WithArgs("no-such-job").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.OccupationBySlug(context.Background(), "no-such-job")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMetroBySlugNotFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, area_code, area_title, slug, state_abbr, is_indexable").
		WithArgs("nowhere").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.MetroBySlug(context.Background(), "nowhere")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSalariesForOccupationScansRows(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("FROM salary_data sd").
		WithArgs(int64(7), 50).
		WillReturnRows(pgxmock.NewRows([]string{"area_title", "slug", "tot_emp", "a_median", "a_mean", "dqs"}).
			AddRow("San Jose-Sunnyvale-Santa Clara, CA", "san-jose-sunnyvale-santa-clara-ca", intPtr(84000), floatPtr(193000), floatPtr(215000), 1.0).
			AddRow("Bozeman, MT", "bozeman-mt", (*int64)(nil), floatPtr(98000), (*float64)(nil), 0.55))

	rows, err := store.SalariesForOccupation(context.Background(), 7, 50)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "san-jose-sunnyvale-santa-clara-ca", rows[0].Slug)
	require.Nil(t, rows[1].TotEmp)
	require.Equal(t, 0.55, rows[1].Score)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupationStatsScansAggregates(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("FROM salary_data").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "min", "max", "sum", "count"}).
			AddRow(floatPtr(120000), floatPtr(98000), floatPtr(193000), intPtr(105000), int64(2)))

	stats, err := store.OccupationStats(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, float64(120000), *stats.AvgMedian)
	require.Equal(t, int64(105000), *stats.TotalEmp)
	require.Equal(t, int64(2), stats.FactCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchOccupationsPassesPatterns(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("FROM occupations o").
		WithArgs("%nurse%", "nurse%", 10).
		WillReturnRows(pgxmock.NewRows([]string{"occ_title", "slug", "avg_salary"}).
			AddRow("Nurse Practitioners", "nurse-practitioners", floatPtr(126000)).
			AddRow("Registered Nurses", "registered-nurses", floatPtr(86000)))

	hits, err := store.SearchOccupations(context.Background(), "nurse", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "Nurse Practitioners", hits[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountIndexableFacts(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(96000)))

	count, err := store.CountIndexableFacts(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(96000), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSalarySlugPagePassesWindow(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT o.slug, m.slug").
		WithArgs(int64(10000), int64(20000)).
		WillReturnRows(pgxmock.NewRows([]string{"occ_slug", "metro_slug"}).
			AddRow("software-developers", "austin-round-rock-tx").
			AddRow("registered-nurses", "austin-round-rock-tx"))

	pairs, err := store.SalarySlugPage(context.Background(), 10000, 20000)
	require.NoError(t, err)
	require.Equal(t, []SlugPair{
		{OccSlug: "software-developers", MetroSlug: "austin-round-rock-tx"},
		{OccSlug: "registered-nurses", MetroSlug: "austin-round-rock-tx"},
	}, pairs)
	require.NoError(t, mock.ExpectationsWereMet())
}
