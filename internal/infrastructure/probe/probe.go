// Package probe reads public metadata from a YouTube watch page.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/ports"
)

// WatchPageProbe fetches a watch page and extracts OpenGraph and microdata tags.
type WatchPageProbe struct {
	client    *http.Client
	userAgent string
}

var _ ports.PageProbe = (*WatchPageProbe)(nil)

// NewWatchPageProbe wires an HTTP client; timeout defaults to 10s.
func NewWatchPageProbe(client *http.Client) *WatchPageProbe {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WatchPageProbe{client: client, userAgent: "VideoSummarizer/1.0"}
}

// Probe returns whatever metadata the page exposes. Missing tags leave fields empty.
func (p *WatchPageProbe) Probe(ctx context.Context, videoURL string) (domain.VideoInfo, error) {
	doc, err := p.fetchDocument(ctx, videoURL)
	if err != nil {
		return domain.VideoInfo{}, err
	}
	info := parseWatchPage(doc)
	info.URL = videoURL
	return info, nil
}

func (p *WatchPageProbe) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func parseWatchPage(doc *goquery.Document) domain.VideoInfo {
	title := metaContent(doc, `meta[property="og:title"]`)
	if title == "" {
		title = metaContent(doc, `meta[name="title"]`)
	}
	if title == "" {
		title = strings.TrimSuffix(strings.TrimSpace(doc.Find("title").First().Text()), " - YouTube")
	}

	author, _ := doc.Find(`span[itemprop="author"] link[itemprop="name"]`).First().Attr("content")
	if author == "" {
		author, _ = doc.Find(`link[itemprop="name"]`).First().Attr("content")
	}

	return domain.VideoInfo{
		Title:      title,
		Thumbnail:  metaContent(doc, `meta[property="og:image"]`),
		Author:     strings.TrimSpace(author),
		Duration:   metaContent(doc, `meta[itemprop="duration"]`),
		UploadDate: metaContent(doc, `meta[itemprop="uploadDate"]`),
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	value, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(value)
}

// Enrich fills empty fields of info from probed. Non-empty fields are kept.
func Enrich(info, probed domain.VideoInfo) domain.VideoInfo {
	if info.Title == "" {
		info.Title = probed.Title
	}
	if info.Thumbnail == "" {
		info.Thumbnail = probed.Thumbnail
	}
	if info.Author == "" {
		info.Author = probed.Author
	}
	if info.Duration == "" {
		info.Duration = probed.Duration
	}
	if info.UploadDate == "" {
		info.UploadDate = probed.UploadDate
	}
	return info
}

// NeedsProbe reports whether info lacks any field the probe can supply.
func NeedsProbe(info domain.VideoInfo) bool {
	return info.Title == "" || info.Thumbnail == "" || info.Author == ""
}
