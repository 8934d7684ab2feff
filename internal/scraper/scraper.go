// Package scraper captures a public profile page into a profile.UserProfile.
// Public profile pages are mostly unscrapable without authenticated browser
// automation, so this is deliberately best-effort: it reads what the page's
// metadata exposes and falls back to a clearly marked placeholder rather
// than failing. Callers never see an error.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/kalambet/careerd/internal/profile"
)

const defaultTimeout = 30 * time.Second

// Scraper fetches profile pages over plain HTTP.
type Scraper struct {
	client  *http.Client
	timeout time.Duration
}

// New creates a Scraper. A nil client uses http.DefaultClient; timeout <= 0
// falls back to the default.
func New(client *http.Client, timeout time.Duration) *Scraper {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Scraper{client: client, timeout: timeout}
}

// FetchProfile fetches and parses profileURL. On any failure (bad URL,
// network error, non-2xx, unparsable HTML, empty metadata) it returns the
// placeholder profile for that URL instead of an error.
func (s *Scraper) FetchProfile(ctx context.Context, profileURL string) profile.UserProfile {
	u, err := url.Parse(profileURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Placeholder(profileURL, "the URL is not a valid http(s) address")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return Placeholder(profileURL, "the request could not be constructed")
	}
	req.Header.Set("User-Agent", "careerd/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return Placeholder(profileURL, "the page could not be fetched")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Placeholder(profileURL, fmt.Sprintf("the page returned status %d", resp.StatusCode))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return Placeholder(profileURL, "the page HTML could not be parsed")
	}

	meta := extractMeta(doc)
	name, headline := splitTitle(firstNonEmpty(meta["og:title"], meta["title"]))
	about := firstNonEmpty(meta["og:description"], meta["description"])
	if name == "" {
		return Placeholder(profileURL, "the page exposed no usable metadata")
	}

	return profile.UserProfile{
		FullName:  name,
		Headline:  headline,
		About:     about,
		SourceURL: profileURL,
	}
}

// Placeholder is the profile stored when scraping fails: obviously fake
// data plus the reason, so the user knows to capture manually.
func Placeholder(profileURL, reason string) profile.UserProfile {
	return profile.UserProfile{
		FullName: fmt.Sprintf("Demo User (%s)", usernameFromURL(profileURL)),
		Headline: "Demo Profile - Real profile scraping not available",
		About: fmt.Sprintf("This is a placeholder profile because %s. "+
			"Set your profile manually to get personalized advice.", reason),
		SourceURL: profileURL,
	}
}

func usernameFromURL(profileURL string) string {
	u, err := url.Parse(profileURL)
	if err != nil {
		return "unknown"
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "unknown"
	}
	return last
}

// extractMeta walks the document collecting <title> and the meta tags the
// parser cares about.
func extractMeta(doc *html.Node) map[string]string {
	meta := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					meta["title"] = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				var key, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "property", "name":
						key = a.Val
					case "content":
						content = a.Val
					}
				}
				switch key {
				case "og:title", "og:description", "description":
					meta[key] = strings.TrimSpace(content)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return meta
}

// splitTitle separates "Name - Headline | Site" style titles into name and
// headline parts.
func splitTitle(title string) (name, headline string) {
	if i := strings.Index(title, " | "); i >= 0 {
		title = title[:i]
	}
	if i := strings.Index(title, " - "); i >= 0 {
		return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
	}
	return strings.TrimSpace(title), ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
