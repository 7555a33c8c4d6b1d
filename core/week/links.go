package week

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	youTubeRegexes = []*regexp.Regexp{
		regexp.MustCompile(`youtu\.be/([^?&#/]+)`),
		regexp.MustCompile(`/v/([^?&#/]+)`),
		regexp.MustCompile(`/embed/([^?&#/]+)`),
		regexp.MustCompile(`[?&]v=([^?&#/]+)`),
	}
	youTubeIDLen = 11

	drivePathRegex  = regexp.MustCompile(`/d/([^/?#&]+)`)
	driveQueryRegex = regexp.MustCompile(`[?&]id=([^&#]+)`)
)

// DecodeLinks normalizes a raw JSON link collection into []ContentItem,
// accepting both the current {url, title} form and the legacy bare-string form.
func DecodeLinks(data []byte) ([]ContentItem, error) {
	var items []ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return NormalizeLinks(items), nil
}

// NormalizeLinks returns a non-nil copy of items with every element in
// {url, title} form. It is idempotent: normalizing an already-normalized list
// yields an identical list. Positional fallback labels ("Video 2") are a
// presentation concern and never stored.
func NormalizeLinks(items []ContentItem) []ContentItem {
	out := make([]ContentItem, len(items))
	for i, it := range items {
		out[i] = ContentItem{URL: it.URL, Title: it.Title}
	}
	return out
}

// DropBlankLinks removes entries whose URL is blank or whitespace-only.
// Runs before storage so stored data never holds empty placeholders from an
// in-progress edit.
func DropBlankLinks(items []ContentItem) []ContentItem {
	out := make([]ContentItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.URL) == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// YouTubeID extracts the video ID from any accepted YouTube URL form
// (youtu.be/<id>, /v/<id>, /embed/<id>, ?v=<id>). The extracted token must be
// exactly 11 characters; anything else is unrecognized and the caller should
// fall back to a plain external link.
func YouTubeID(url string) (string, bool) {
	for _, re := range youTubeRegexes {
		if m := re.FindStringSubmatch(url); m != nil && len(m[1]) == youTubeIDLen {
			return m[1], true
		}
	}
	return "", false
}

// DriveFileID extracts the file ID from a Google Drive URL: the /d/<id> path
// segment first, then an id=<id> query parameter.
func DriveFileID(url string) (string, bool) {
	if m := drivePathRegex.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	if m := driveQueryRegex.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	return "", false
}
