package sitemap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/salaryscout/salaryscout/internal/store"
)

// Source is the slice of the store the builder reads. *store.Store
// satisfies it; tests use an in-memory fake.
type Source interface {
	CountIndexableFacts(ctx context.Context) (int64, error)
	IndexableOccupationSlugs(ctx context.Context) ([]string, error)
	IndexableMetroSlugs(ctx context.Context) ([]string, error)
	SalarySlugPage(ctx context.Context, limit, offset int64) ([]store.SlugPair, error)
}

// Clock stamps lastmod values; injected so tests get stable output.
type Clock interface {
	Now() time.Time
}

// Builder assembles sitemap documents from live store counts. Counts are
// re-read per request, so page contents can drift between the index
// announcement and an individual page fetch while an ingestion run is in
// flight. Accepted as eventually consistent.
type Builder struct {
	src         Source
	part        Partitioner
	clock       Clock
	siteURL     string
	staticCount int64
}

// NewBuilder creates a Builder. siteURL is the canonical scheme+host with
// no trailing slash; staticCount is how many hand-maintained pages (home,
// occupation index, location index) page zero carries.
func NewBuilder(src Source, part Partitioner, clock Clock, siteURL string, staticCount int64) *Builder {
	if staticCount <= 0 {
		staticCount = 3
	}
	return &Builder{
		src:         src,
		part:        part,
		clock:       clock,
		siteURL:     strings.TrimRight(siteURL, "/"),
		staticCount: staticCount,
	}
}

func (b *Builder) fixedCount(ctx context.Context) (occs, metros []string, fixed int64, err error) {
	occs, err = b.src.IndexableOccupationSlugs(ctx)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("list occupation slugs: %w", err)
	}
	metros, err = b.src.IndexableMetroSlugs(ctx)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("list metro slugs: %w", err)
	}
	return occs, metros, b.staticCount + int64(len(occs)) + int64(len(metros)), nil
}

// BuildIndex enumerates every sitemap page currently needed.
func (b *Builder) BuildIndex(ctx context.Context) (Index, error) {
	salaryCount, err := b.src.CountIndexableFacts(ctx)
	if err != nil {
		return Index{}, fmt.Errorf("count salary pages: %w", err)
	}
	_, _, fixed, err := b.fixedCount(ctx)
	if err != nil {
		return Index{}, err
	}

	lastMod := b.clock.Now().Format(time.RFC3339)
	numPages := b.part.NumPages(fixed, salaryCount)
	idx := Index{Sitemaps: make([]IndexEntry, 0, numPages)}
	for page := int64(0); page < numPages; page++ {
		idx.Sitemaps = append(idx.Sitemaps, IndexEntry{
			Loc:     fmt.Sprintf("%s/sitemap/%d.xml", b.siteURL, page),
			LastMod: lastMod,
		})
	}
	return idx, nil
}

// BuildPage assembles one sitemap page. Page zero is static pages, then
// every occupation page, then every metro page, then its salary quota;
// later pages are pure salary slices.
func (b *Builder) BuildPage(ctx context.Context, page int64) (URLSet, error) {
	if page < 0 {
		return URLSet{}, fmt.Errorf("sitemap page %d out of range", page)
	}

	occs, metros, fixed, err := b.fixedCount(ctx)
	if err != nil {
		return URLSet{}, err
	}

	lastMod := b.clock.Now().Format(time.RFC3339)
	var set URLSet

	if page == 0 {
		set.URLs = append(set.URLs,
			URL{Loc: b.siteURL, LastMod: lastMod, ChangeFreq: freqWeekly, Priority: priorityHome},
			URL{Loc: b.siteURL + "/occupations", LastMod: lastMod, ChangeFreq: freqMonthly, Priority: priorityIndex},
			URL{Loc: b.siteURL + "/locations", LastMod: lastMod, ChangeFreq: freqMonthly, Priority: priorityIndex},
		)
		for _, slug := range occs {
			set.URLs = append(set.URLs, URL{
				Loc:        b.siteURL + "/occupations/" + slug,
				LastMod:    lastMod,
				ChangeFreq: freqMonthly,
				Priority:   priorityEntity,
			})
		}
		for _, slug := range metros {
			set.URLs = append(set.URLs, URL{
				Loc:        b.siteURL + "/locations/" + slug,
				LastMod:    lastMod,
				ChangeFreq: freqMonthly,
				Priority:   priorityEntity,
			})
		}
	}

	slice := b.part.SalarySlice(page, fixed)
	if slice.Limit > 0 {
		pairs, err := b.src.SalarySlugPage(ctx, slice.Limit, slice.Offset)
		if err != nil {
			return URLSet{}, fmt.Errorf("list salary slugs: %w", err)
		}
		for _, p := range pairs {
			set.URLs = append(set.URLs, URL{
				Loc:        fmt.Sprintf("%s/salary/%s/%s", b.siteURL, p.OccSlug, p.MetroSlug),
				LastMod:    lastMod,
				ChangeFreq: freqYearly,
				Priority:   prioritySalary,
			})
		}
	}
	return set, nil
}
