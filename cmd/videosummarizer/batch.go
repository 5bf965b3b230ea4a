package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"VideoSummarizer/internal/usecase"
)

func newBatchCmd(c *cli) *cobra.Command {
	flags := &analysisFlags{}
	var file string

	cmd := &cobra.Command{
		Use:   "batch [youtube-url...]",
		Short: "Analyze several videos with bounded concurrency",
		Long: `Analyze several videos. URLs come from the arguments and, with --file, from a
file holding one URL per line ("-" reads stdin). Blank lines and lines starting
with # are skipped. Concurrency and pacing follow the batch config section.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string(nil), args...)
			if file != "" {
				fromFile, err := readURLs(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("no urls given")
			}

			ctx := cmd.Context()
			stopMetrics := startMetrics(ctx, c, cmd.ErrOrStderr())
			defer stopMetrics()

			c.app.RefreshCatalog(ctx)

			var observerFor func(int, string) usecase.Observer
			if !flags.quiet {
				errOut := cmd.ErrOrStderr()
				observerFor = func(i int, _ string) usecase.Observer {
					return newProgressPrinter(errOut, fmt.Sprintf("[#%d] ", i+1)).observer()
				}
			}

			results := c.app.SummarizeBatch(ctx, urls, flags.options(c), observerFor)

			out := cmd.OutOrStdout()
			if flags.asJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for i, r := range results {
					status := "ok"
					detail := r.TotalTime
					if !r.Success {
						status = "failed"
						detail = r.Error.Message
					}
					fmt.Fprintf(out, "%d. %-6s %s  %s\n", i+1, status, r.URL, detail)
				}
			}

			succeeded, failed := usecase.Summary(results)
			fmt.Fprintf(cmd.ErrOrStderr(), "%d succeeded, %d failed\n", succeeded, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d videos failed", failed, len(results))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", `File with one URL per line, "-" for stdin`)
	return cmd
}

func readURLs(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open url list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}
