package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Change frequencies and priorities per URL category.
const (
	freqWeekly  = "weekly"
	freqMonthly = "monthly"
	freqYearly  = "yearly"

	priorityHome   = "1.0"
	priorityIndex  = "0.9"
	priorityEntity = "0.8"
	prioritySalary = "0.7"
)

// URL is one <url> entry in a sitemap page.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// URLSet is one sitemap page.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// IndexEntry is one <sitemap> entry in the sitemap index.
type IndexEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Index is the top-level sitemap index enumerating every page.
type Index struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []IndexEntry `xml:"sitemap"`
}

func writeDocument(w io.Writer, doc any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode sitemap document: %w", err)
	}
	return enc.Close()
}

// Write renders the page as an XML document.
func (u URLSet) Write(w io.Writer) error {
	u.Xmlns = xmlns
	return writeDocument(w, u)
}

// Write renders the index as an XML document.
func (i Index) Write(w io.Writer) error {
	i.Xmlns = xmlns
	return writeDocument(w, i)
}
