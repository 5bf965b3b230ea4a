package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"VideoSummarizer/internal/videourl"
)

func newConfigCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show available models and languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := c.app.RefreshCatalog(cmd.Context())
			out := cmd.OutOrStdout()

			if asJSON {
				return writeJSON(out, map[string]any{
					"available_models":        cat.Models(),
					"supported_languages":     cat.Languages(),
					"default_analysis_model":  cat.DefaultAnalysisModel(),
					"default_quality_model":   cat.DefaultQualityModel(),
					"default_target_language": cat.DefaultTargetLanguage(),
				})
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tLABEL\tDEFAULT")
			models := cat.Models()
			for _, id := range cat.ModelIDs() {
				var marks string
				switch id {
				case cat.DefaultAnalysisModel():
					marks = "analysis"
				case cat.DefaultQualityModel():
					marks = "quality"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", id, models[id], marks)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "LANGUAGE\tNAME\tDEFAULT")
			languages := cat.Languages()
			for _, code := range cat.LanguageCodes() {
				var mark string
				if code == cat.DefaultTargetLanguage() {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", code, languages[code], mark)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable and configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := c.app.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("check health: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:          %s\n", health.Status)
			if health.Version != "" {
				fmt.Fprintf(out, "version:         %s\n", health.Version)
			}
			if health.Message != "" {
				fmt.Fprintf(out, "message:         %s\n", health.Message)
			}
			fmt.Fprintf(out, "gemini:          %t\n", health.GeminiConfigured)
			fmt.Fprintf(out, "scrapecreators:  %t\n", health.ScrapeCreatorsConfigured)
			return nil
		},
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the local history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := c.app.History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tSTATUS\tQUALITY\tCHAPTERS\tTIME\tTITLE")
			for _, rec := range records {
				status := "ok"
				if !rec.Success {
					status = string(rec.ErrorType)
				}
				quality := "-"
				if rec.QualityScore != nil {
					quality = fmt.Sprintf("%.0f%%", *rec.QualityScore)
				}
				title := rec.Title
				if title == "" {
					title = rec.URL
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					rec.CreatedAt.Local().Format(time.DateTime),
					status,
					quality,
					rec.ChapterCount,
					videourl.FormatProcessingTime(fmt.Sprintf("%.1fs", rec.Elapsed.Seconds())),
					title,
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
