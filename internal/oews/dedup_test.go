package oews

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func record(occCode, occTitle, areaCode, areaTitle string) Record {
	return Record{
		OccCode:   occCode,
		OccTitle:  occTitle,
		OccGroup:  GroupDetailed,
		AreaCode:  areaCode,
		AreaTitle: areaTitle,
	}
}

func TestDeduplicatorFirstSeenWins(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	d.Observe(record("15-1252", "Software Developers", "35620", "New York-Newark-Jersey City, NY-NJ-PA"))
	d.Observe(record("15-1252", "Software Developers (renamed)", "16980", "Chicago-Naperville-Elgin, IL-IN-WI"))
	d.Observe(record("29-1141", "Registered Nurses", "35620", "New York (changed)"))

	occs := d.Occupations()
	require.Len(t, occs, 2)
	require.Equal(t, "Software Developers", occs[0].Title, "first-seen title wins")
	require.Equal(t, "software-developers", occs[0].Slug)
	require.Equal(t, "29-1141", occs[1].Code)

	metros := d.Metros()
	require.Len(t, metros, 2)
	require.Equal(t, "New York-Newark-Jersey City, NY-NJ-PA", metros[0].AreaTitle)
	require.NotNil(t, metros[0].StateAbbr)
	require.Equal(t, "NY", *metros[0].StateAbbr)
	require.Equal(t, "IL", *metros[1].StateAbbr)
}

func TestDeduplicatorPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	codes := []string{"11-1011", "15-1252", "29-1141", "13-2011"}
	for _, c := range codes {
		d.Observe(record(c, "Title "+c, "100"+c, "Area "+c+", TX"))
	}
	occs := d.Occupations()
	require.Len(t, occs, len(codes))
	for i, c := range codes {
		require.Equal(t, c, occs[i].Code)
	}
}

func TestDeduplicatorMetroWithoutState(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	d.Observe(record("15-1252", "Software Developers", "99999", "Guam Nonstandard Area"))
	metros := d.Metros()
	require.Len(t, metros, 1)
	require.Nil(t, metros[0].StateAbbr)
}

func TestSlugCollisionsDetected(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	d.Observe(record("15-1252", "Software Developers!", "35620", "New York-Newark-Jersey City, NY-NJ-PA"))
	d.Observe(record("15-1253", "Software developers", "16980", "Chicago-Naperville-Elgin, IL-IN-WI"))

	err := d.SlugCollisions()
	require.Error(t, err)
	require.Contains(t, err.Error(), "software-developers")
	require.Contains(t, err.Error(), "Software Developers!")
}

func TestSlugCollisionsCleanSet(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	d.Observe(record("15-1252", "Software Developers", "35620", "New York-Newark-Jersey City, NY-NJ-PA"))
	d.Observe(record("29-1141", "Registered Nurses", "16980", "Chicago-Naperville-Elgin, IL-IN-WI"))
	require.NoError(t, d.SlugCollisions())
}
