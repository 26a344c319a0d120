package sitemap

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salaryscout/salaryscout/internal/store"
)

type fakeSource struct {
	occs   []string
	metros []string
	pairs  []store.SlugPair
}

func (f *fakeSource) CountIndexableFacts(context.Context) (int64, error) {
	return int64(len(f.pairs)), nil
}

func (f *fakeSource) IndexableOccupationSlugs(context.Context) ([]string, error) {
	return f.occs, nil
}

func (f *fakeSource) IndexableMetroSlugs(context.Context) ([]string, error) {
	return f.metros, nil
}

func (f *fakeSource) SalarySlugPage(_ context.Context, limit, offset int64) ([]store.SlugPair, error) {
	if offset >= int64(len(f.pairs)) {
		return nil, nil
	}
	end := offset + limit
	if end > int64(len(f.pairs)) {
		end = int64(len(f.pairs))
	}
	return f.pairs[offset:end], nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testBuilder(pageSize int64) (*Builder, *fakeSource) {
	src := &fakeSource{
		occs:   []string{"registered-nurses", "software-developers"},
		metros: []string{"austin-round-rock-tx"},
		pairs: []store.SlugPair{
			{OccSlug: "software-developers", MetroSlug: "austin-round-rock-tx"},
			{OccSlug: "registered-nurses", MetroSlug: "austin-round-rock-tx"},
			{OccSlug: "cashiers", MetroSlug: "austin-round-rock-tx"},
			{OccSlug: "bartenders", MetroSlug: "austin-round-rock-tx"},
			{OccSlug: "chefs", MetroSlug: "austin-round-rock-tx"},
			{OccSlug: "plumbers", MetroSlug: "austin-round-rock-tx"},
		},
	}
	clock := fixedClock{t: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBuilder(src, NewPartitioner(pageSize), clock, "https://salaryscout.dev/", 3)
	return b, src
}

func TestBuildIndexEnumeratesPages(t *testing.T) {
	t.Parallel()

	// fixed = 3 static + 2 occupations + 1 metro = 6; 6 fixed + 6 salary
	// URLs over pages of 8 means two pages.
	b, _ := testBuilder(8)

	idx, err := b.BuildIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, idx.Sitemaps, 2)
	require.Equal(t, "https://salaryscout.dev/sitemap/0.xml", idx.Sitemaps[0].Loc)
	require.Equal(t, "https://salaryscout.dev/sitemap/1.xml", idx.Sitemaps[1].Loc)
	require.Equal(t, "2025-06-01T00:00:00Z", idx.Sitemaps[0].LastMod)
}

func TestBuildPageZeroOrdersCategories(t *testing.T) {
	t.Parallel()

	b, _ := testBuilder(8)

	set, err := b.BuildPage(context.Background(), 0)
	require.NoError(t, err)

	locs := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	require.Equal(t, []string{
		"https://salaryscout.dev",
		"https://salaryscout.dev/occupations",
		"https://salaryscout.dev/locations",
		"https://salaryscout.dev/occupations/registered-nurses",
		"https://salaryscout.dev/occupations/software-developers",
		"https://salaryscout.dev/locations/austin-round-rock-tx",
		"https://salaryscout.dev/salary/software-developers/austin-round-rock-tx",
		"https://salaryscout.dev/salary/registered-nurses/austin-round-rock-tx",
	}, locs)

	require.Equal(t, "1.0", set.URLs[0].Priority)
	require.Equal(t, "weekly", set.URLs[0].ChangeFreq)
	require.Equal(t, "0.9", set.URLs[1].Priority)
	require.Equal(t, "0.8", set.URLs[3].Priority)
	require.Equal(t, "0.7", set.URLs[6].Priority)
	require.Equal(t, "yearly", set.URLs[6].ChangeFreq)
}

func TestBuildLaterPageIsSalaryOnly(t *testing.T) {
	t.Parallel()

	b, _ := testBuilder(8)

	set, err := b.BuildPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, set.URLs, 4)
	require.Equal(t, "https://salaryscout.dev/salary/cashiers/austin-round-rock-tx", set.URLs[0].Loc)
	for _, u := range set.URLs {
		require.Equal(t, "0.7", u.Priority)
		require.Equal(t, "yearly", u.ChangeFreq)
	}
}

func TestBuildPageRejectsNegativeIndex(t *testing.T) {
	t.Parallel()

	b, _ := testBuilder(8)
	_, err := b.BuildPage(context.Background(), -1)
	require.ErrorContains(t, err, "out of range")
}

func TestURLSetWriteEmitsSitemapXML(t *testing.T) {
	t.Parallel()

	set := URLSet{URLs: []URL{{
		Loc:        "https://salaryscout.dev/salary/chefs/austin-round-rock-tx",
		LastMod:    "2025-06-01T00:00:00Z",
		ChangeFreq: "yearly",
		Priority:   "0.7",
	}}}

	var buf bytes.Buffer
	require.NoError(t, set.Write(&buf))

	out := buf.String()
	require.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	require.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Contains(t, out, "<loc>https://salaryscout.dev/salary/chefs/austin-round-rock-tx</loc>")
	require.Contains(t, out, "<changefreq>yearly</changefreq>")
	require.Contains(t, out, "<priority>0.7</priority>")
}

func TestIndexWriteEmitsSitemapIndexXML(t *testing.T) {
	t.Parallel()

	idx := Index{Sitemaps: []IndexEntry{
		{Loc: "https://salaryscout.dev/sitemap/0.xml", LastMod: "2025-06-01T00:00:00Z"},
	}}

	var buf bytes.Buffer
	require.NoError(t, idx.Write(&buf))

	out := buf.String()
	require.Contains(t, out, `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Contains(t, out, "<loc>https://salaryscout.dev/sitemap/0.xml</loc>")
	require.Contains(t, out, "<lastmod>2025-06-01T00:00:00Z</lastmod>")
}
