package usecase

import (
	"fmt"
	"strings"

	"VideoSummarizer/internal/domain"
)

const maxDigestTakeaways = 5

// BuildDigest renders a Markdown summary of a successful run for chat delivery.
func BuildDigest(result domain.Result) string {
	var b strings.Builder

	title := ""
	if result.VideoInfo != nil {
		title = result.VideoInfo.Title
	}
	if title == "" && result.Analysis != nil {
		title = result.Analysis.Title
	}
	if title == "" {
		title = result.URL
	}

	fmt.Fprintf(&b, "*%s*\n", title)
	if result.URL != "" {
		fmt.Fprintf(&b, "%s\n", result.URL)
	}
	if result.VideoInfo != nil && result.VideoInfo.Author != "" {
		fmt.Fprintf(&b, "Channel: %s\n", result.VideoInfo.Author)
	}

	if result.Analysis != nil {
		if summary := strings.TrimSpace(result.Analysis.Summary); summary != "" {
			fmt.Fprintf(&b, "\n%s\n", summary)
		}
		if len(result.Analysis.Takeaways) > 0 {
			b.WriteString("\n*Key takeaways*\n")
			for i, takeaway := range result.Analysis.Takeaways {
				if i == maxDigestTakeaways {
					break
				}
				fmt.Fprintf(&b, "- %s\n", takeaway)
			}
		}
	}

	b.WriteString("\n")
	if result.Quality != nil && result.Quality.PercentageScore != nil {
		fmt.Fprintf(&b, "Quality: %s%% | ", formatScore(*result.Quality.PercentageScore))
	}
	fmt.Fprintf(&b, "Chapters: %d | Time: %s", result.Analysis.ChapterCount(), result.TotalTime)

	return b.String()
}
