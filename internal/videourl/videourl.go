// Package videourl validates YouTube links and formats video metadata.
package videourl

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const videoIDLength = 11

var (
	pathIDPattern  = regexp.MustCompile(`/(?:embed|v)/([^/?]+)`)
	durationRegexp = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
	elapsedRegexp  = regexp.MustCompile(`^([\d.]+)([smh])$`)
)

var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// Thumbnail qualities accepted by ThumbnailURL.
const (
	QualityDefault = "default"
	QualityMedium  = "mq"
	QualityHigh    = "hq"
	QualitySD      = "sd"
	QualityMaxRes  = "maxres"
)

var thumbnailFiles = map[string]string{
	QualityDefault: "default",
	QualityMedium:  "mqdefault",
	QualityHigh:    "hqdefault",
	QualitySD:      "sddefault",
	QualityMaxRes:  "maxresdefault",
}

// IsValid reports whether raw is a YouTube link carrying an 11-character video id.
func IsValid(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return false
	}
	if !youtubeHosts[strings.ToLower(u.Hostname())] {
		return false
	}
	return len(ExtractID(raw)) == videoIDLength
}

// ExtractID returns the video id, or "" when none can be found.
func ExtractID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	if host == "youtu.be" {
		return strings.TrimPrefix(u.Path, "/")
	}
	if !strings.Contains(host, "youtube.com") {
		return ""
	}
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	if m := pathIDPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

// Canonical rewrites any recognized link to the watch?v= form.
func Canonical(raw string) string {
	if id := ExtractID(raw); id != "" {
		return "https://www.youtube.com/watch?v=" + id
	}
	return raw
}

// ThumbnailURL builds the static thumbnail link. Unknown qualities use hq.
func ThumbnailURL(videoID, quality string) string {
	file, ok := thumbnailFiles[quality]
	if !ok {
		file = thumbnailFiles[QualityHigh]
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, file)
}

// FormatViewCount abbreviates large counts: 1.2K, 3.4M, 5.6B.
func FormatViewCount(count int64) string {
	switch {
	case count >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(count)/1_000_000_000)
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	default:
		return strconv.FormatInt(count, 10)
	}
}

// FormatDuration turns an ISO-8601 duration such as PT1H4M13S into 1:04:13.
// Unparseable input is returned unchanged.
func FormatDuration(iso string) string {
	if iso == "" {
		return "0:00"
	}
	m := durationRegexp.FindStringSubmatch(iso)
	if m == nil {
		return iso
	}
	hours, minutes, seconds := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatProcessingTime normalizes backend timings like "75.2s" to "1m 15s".
func FormatProcessingTime(value string) string {
	if value == "" {
		return "0s"
	}
	m := elapsedRegexp.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return value
	}

	switch m[2] {
	case "s":
		if num < 60 {
			return fmt.Sprintf("%.1fs", num)
		}
		total := int(num)
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	case "m":
		return fmt.Sprintf("%dm", int(num))
	default:
		return fmt.Sprintf("%dh", int(num))
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
