// Package googlenews searches the public Google News RSS feed.
package googlenews

import (
	"encoding/xml"
	"fmt"
)

// RSS is the feed document root.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Items       []Item `xml:"item"`
}

// Item is one feed entry. Only Title is relied on downstream.
type Item struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	Source  Source `xml:"source"`
	GUID    string `xml:"guid"`
}

type Source struct {
	URL  string `xml:"url,attr"`
	Text string `xml:",chardata"`
}

// APIError represents a non-200 response from the feed endpoint.
type APIError struct {
	StatusCode int
	Query      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google news feed error (status: %d, query: %q)", e.StatusCode, e.Query)
}
