package oews

import (
	"fmt"
	"sort"
	"strings"
)

// Deduplicator builds the unique occupation and metro entity sets from the
// normalized row stream. First-seen-wins: if a source code repeats within
// one run with a different title, the first title builds the draft.
// Insertion order is preserved so re-runs produce identical write order.
type Deduplicator struct {
	occSeen     map[string]struct{}
	metroSeen   map[string]struct{}
	occupations []Occupation
	metros      []Metro
}

// NewDeduplicator returns an empty Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		occSeen:   make(map[string]struct{}),
		metroSeen: make(map[string]struct{}),
	}
}

// Observe folds one record into the entity sets.
func (d *Deduplicator) Observe(rec Record) {
	if _, ok := d.occSeen[rec.OccCode]; !ok {
		d.occSeen[rec.OccCode] = struct{}{}
		d.occupations = append(d.occupations, Occupation{
			Code:  rec.OccCode,
			Title: rec.OccTitle,
			Group: rec.OccGroup,
			Slug:  Slugify(rec.OccTitle),
		})
	}
	if _, ok := d.metroSeen[rec.AreaCode]; !ok {
		d.metroSeen[rec.AreaCode] = struct{}{}
		d.metros = append(d.metros, Metro{
			AreaCode:  rec.AreaCode,
			AreaTitle: rec.AreaTitle,
			Slug:      Slugify(rec.AreaTitle),
			StateAbbr: ExtractState(rec.AreaTitle),
		})
	}
}

// Occupations returns the occupation drafts in first-seen order.
func (d *Deduplicator) Occupations() []Occupation {
	return d.occupations
}

// Metros returns the metro drafts in first-seen order.
func (d *Deduplicator) Metros() []Metro {
	return d.metros
}

// SlugCollisions reports distinct titles that normalize to the same slug
// within either entity set. The store enforces unique slugs, so writing a
// colliding set would clobber one entity's URL; the run fails loudly
// instead of guessing a resolution.
func (d *Deduplicator) SlugCollisions() error {
	var problems []string

	occBySlug := make(map[string][]string, len(d.occupations))
	for _, occ := range d.occupations {
		occBySlug[occ.Slug] = append(occBySlug[occ.Slug], occ.Title)
	}
	problems = append(problems, collisionMessages("occupation", occBySlug)...)

	metroBySlug := make(map[string][]string, len(d.metros))
	for _, m := range d.metros {
		metroBySlug[m.Slug] = append(metroBySlug[m.Slug], m.AreaTitle)
	}
	problems = append(problems, collisionMessages("metro", metroBySlug)...)

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("slug collisions: %s", strings.Join(problems, "; "))
}

func collisionMessages(kind string, bySlug map[string][]string) []string {
	var out []string
	for slug, titles := range bySlug {
		if len(titles) > 1 {
			out = append(out, fmt.Sprintf("%s slug %q from titles %s", kind, slug, strings.Join(titles, " / ")))
		}
	}
	sort.Strings(out)
	return out
}
