package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"VideoSummarizer/internal/catalog"
	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/progress"
	"VideoSummarizer/internal/usecase"
	"VideoSummarizer/internal/videourl"
)

// analysisFlags are shared by summarize and batch.
type analysisFlags struct {
	analysisModel  string
	qualityModel   string
	targetLanguage string
	fast           bool
	asJSON         bool
	quiet          bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.analysisModel, "analysis-model", "", "Model used for the analysis")
	cmd.Flags().StringVar(&f.qualityModel, "quality-model", "", "Model used for quality evaluation")
	cmd.Flags().StringVarP(&f.targetLanguage, "lang", "l", "", `Target language tag, or "auto"`)
	cmd.Flags().BoolVar(&f.fast, "fast", false, "Skip iterative refinement")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Do not print progress")
}

func (f *analysisFlags) options(c *cli) catalog.Options {
	opts := c.app.DefaultOptions()
	opts.AnalysisModel = f.analysisModel
	opts.QualityModel = f.qualityModel
	opts.TargetLanguage = f.targetLanguage
	if f.fast {
		opts.FastMode = true
	}
	return opts
}

func newSummarizeCmd(c *cli) *cobra.Command {
	flags := &analysisFlags{}
	cmd := &cobra.Command{
		Use:   "summarize <youtube-url>",
		Short: "Scrape and analyze one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stopMetrics := startMetrics(ctx, c, cmd.ErrOrStderr())
			defer stopMetrics()

			c.app.RefreshCatalog(ctx)

			var observer usecase.Observer
			if !flags.quiet {
				observer = newProgressPrinter(cmd.ErrOrStderr(), "").observer()
			}

			result := c.app.Summarize(ctx, args[0], flags.options(c), observer)
			if flags.asJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				printResult(cmd.OutOrStdout(), result)
			}
			if !result.Success {
				return result.Error
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// startMetrics serves /metrics for the duration of a command when configured.
func startMetrics(ctx context.Context, c *cli, errOut io.Writer) func() {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.app.ServeMetrics(ctx); err != nil {
			fmt.Fprintln(errOut, "metrics:", err)
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

// progressPrinter writes new log lines and stage changes as they arrive.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	prefix  string
	printed int
	anchor  int
}

func newProgressPrinter(w io.Writer, prefix string) *progressPrinter {
	return &progressPrinter{w: w, prefix: prefix, anchor: -1}
}

func (p *progressPrinter) observer() usecase.Observer {
	return usecase.Observer{
		OnProgress: func(_ domain.ProgressEvent, view progress.Snapshot) {
			p.mu.Lock()
			defer p.mu.Unlock()
			anchor := progress.ActiveAnchor(view)
			if anchor == p.anchor {
				return
			}
			p.anchor = anchor
			fmt.Fprintf(p.w, "%s==> %s (%.0f%%)\n", p.prefix, progress.StageText(anchor), progress.Percent(view))
		},
		OnLogs: func(lines []string) {
			p.mu.Lock()
			defer p.mu.Unlock()
			for _, line := range lines[min(p.printed, len(lines)):] {
				fmt.Fprintf(p.w, "%s%s\n", p.prefix, line)
			}
			p.printed = len(lines)
		},
	}
}

func printResult(w io.Writer, result domain.Result) {
	if !result.Success {
		fmt.Fprintf(w, "Failed after %s: %s\n", result.TotalTime, result.Error.FriendlyMessage())
		if result.Error.Message != result.Error.FriendlyMessage() {
			fmt.Fprintf(w, "  %s\n", result.Error.Message)
		}
		return
	}

	if info := result.VideoInfo; info != nil {
		fmt.Fprintf(w, "%s\n", info.Title)
		var meta []string
		if info.Author != "" {
			meta = append(meta, info.Author)
		}
		if info.Duration != "" {
			meta = append(meta, videourl.FormatDuration(info.Duration))
		}
		if info.ViewCount > 0 {
			meta = append(meta, videourl.FormatViewCount(info.ViewCount)+" views")
		}
		if len(meta) > 0 {
			fmt.Fprintf(w, "%s\n", strings.Join(meta, " · "))
		}
		if id := videourl.ExtractID(result.URL); id != "" && info.Thumbnail == "" {
			fmt.Fprintf(w, "%s\n", videourl.ThumbnailURL(id, videourl.QualityHigh))
		}
	}

	if a := result.Analysis; a != nil {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(a.Summary))
		if len(a.Takeaways) > 0 {
			fmt.Fprintln(w, "\nKey takeaways:")
			for _, t := range a.Takeaways {
				fmt.Fprintf(w, "  - %s\n", t)
			}
		}
		if len(a.Chapters) > 0 {
			fmt.Fprintln(w, "\nChapters:")
			for i, ch := range a.Chapters {
				fmt.Fprintf(w, "  %d. %s\n", i+1, ch.Header)
			}
		}
	}

	fmt.Fprintln(w)
	if q := result.Quality; q != nil && q.PercentageScore != nil {
		fmt.Fprintf(w, "Quality: %.0f%% ", *q.PercentageScore)
	}
	fmt.Fprintf(w, "Iterations: %d  Time: %s\n", result.IterationCount, videourl.FormatProcessingTime(result.TotalTime))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
