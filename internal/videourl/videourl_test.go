package videourl

import "testing"

func TestIsValid(t *testing.T) {
	cases := map[string]bool{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":     true,
		"https://youtube.com/watch?v=jNQXAC9IVRw&t=10":    true,
		"https://m.youtube.com/watch?v=9bZkp7q19f0":       true,
		"https://youtu.be/dQw4w9WgXcQ":                    true,
		"https://www.youtube.com/embed/dQw4w9WgXcQ":       true,
		"https://www.youtube.com/v/dQw4w9WgXcQ?version=3": true,
		"https://www.youtube.com/watch?v=short":           false,
		"https://vimeo.com/123456789":                     false,
		"youtube.com/watch?v=dQw4w9WgXcQ":                 false,
		"":                                                false,
		"not a url":                                       false,
	}
	for raw, want := range cases {
		if got := IsValid(raw); got != want {
			t.Errorf("IsValid(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestExtractIDAndCanonical(t *testing.T) {
	if got := ExtractID("https://youtu.be/dQw4w9WgXcQ"); got != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := ExtractID("https://example.com/watch?v=dQw4w9WgXcQ"); got != "" {
		t.Fatalf("expected no id for foreign host, got %q", got)
	}
	if got := Canonical("https://youtu.be/dQw4w9WgXcQ"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("unexpected canonical url %q", got)
	}
	if got := Canonical("https://example.com/x"); got != "https://example.com/x" {
		t.Fatalf("foreign url should pass through, got %q", got)
	}
}

func TestThumbnailURL(t *testing.T) {
	if got := ThumbnailURL("abc", QualityMaxRes); got != "https://img.youtube.com/vi/abc/maxresdefault.jpg" {
		t.Fatalf("unexpected thumbnail %q", got)
	}
	if got := ThumbnailURL("abc", "weird"); got != "https://img.youtube.com/vi/abc/hqdefault.jpg" {
		t.Fatalf("unexpected fallback thumbnail %q", got)
	}
}

func TestFormatters(t *testing.T) {
	views := map[int64]string{
		999:           "999",
		1_500:         "1.5K",
		2_340_000:     "2.3M",
		7_000_000_000: "7.0B",
	}
	for in, want := range views {
		if got := FormatViewCount(in); got != want {
			t.Errorf("FormatViewCount(%d) = %q, want %q", in, got, want)
		}
	}

	durations := map[string]string{
		"":         "0:00",
		"PT4M13S":  "4:13",
		"PT1H4M3S": "1:04:03",
		"PT45S":    "0:45",
		"garbage":  "garbage",
	}
	for in, want := range durations {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%q) = %q, want %q", in, got, want)
		}
	}

	elapsed := map[string]string{
		"":       "0s",
		"12.34s": "12.3s",
		"75.9s":  "1m 15s",
		"3.5m":   "3m",
		"2h":     "2h",
		"soon":   "soon",
	}
	for in, want := range elapsed {
		if got := FormatProcessingTime(in); got != want {
			t.Errorf("FormatProcessingTime(%q) = %q, want %q", in, got, want)
		}
	}
}
