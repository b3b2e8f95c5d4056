// Package feed writes the RSS feed and the XML sitemap of the site.
package feed

import (
	"encoding/xml"
	"io"
	"time"
)

// Channel describes the feed as a whole.
type Channel struct {
	Title       string
	Link        string
	Description string
}

// Item is a single feed entry. Link must be absolute.
type Item struct {
	Title       string
	Link        string
	Description string // HTML allowed, written as escaped text
	Author      string
	Published   time.Time
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// WriteRSS writes an RSS 2.0 document.
func WriteRSS(w io.Writer, ch Channel, items []Item) error {
	out := make([]rssItem, 0, len(items))
	for _, it := range items {
		pubDate := ""
		if !it.Published.IsZero() {
			pubDate = it.Published.Format(time.RFC1123Z)
		}
		out = append(out, rssItem{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			Author:      it.Author,
			PubDate:     pubDate,
			GUID:        it.Link,
		})
	}
	doc := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        ch.Link,
			Description: ch.Description,
			Items:       out,
		},
	}
	return encode(w, doc)
}

type sitemapURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is a sitemap entry.
type URL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemaps.org urlset.
func WriteSitemap(w io.Writer, urls []URL) error {
	return encode(w, sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

// LastMod formats t for a sitemap entry; zero times yield "".
func LastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
