package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/pkg/store"
)

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// withSpinner animates a spinner on stderr while fn runs.
func withSpinner(description string, fn func() error) error {
	bar := getSpinner(description)
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	err := fn()
	close(done)
	_ = bar.Finish()
	return err
}

func printDigest(w io.Writer, d *models.Digest) {
	color.New(color.FgBlue, color.Bold).Fprintf(w, "Digest for %q", d.Keyword)
	fmt.Fprintf(w, " (%s)\n\n", d.ID)

	sites := make([]string, 0, len(d.Results))
	for site := range d.Results {
		sites = append(sites, site)
	}
	slices.Sort(sites)

	for _, site := range sites {
		res := d.Results[site]
		if res.Failed() {
			color.New(color.FgRed).Fprintf(w, "✗ %s", site)
			fmt.Fprintf(w, ": %s\n\n", res.Error)
			continue
		}

		color.New(color.FgGreen).Fprintf(w, "✓ %s\n", site)
		fmt.Fprintf(w, "%s\n", strings.TrimSpace(res.Summary))
		for _, src := range res.Sources {
			fmt.Fprintf(w, "  - %s <%s>\n", src.Title, src.URL)
		}
		fmt.Fprintln(w)
	}
}

func printRecords(w io.Writer, records []store.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No archived summaries found.")
		return
	}

	for i, rec := range records {
		color.New(color.FgCyan).Fprintf(w, "%d. %s / %s", i+1, rec.Keyword, rec.Website)
		fmt.Fprintf(w, "  distance=%.3f  %s\n", rec.Distance, rec.CreatedAt.Format(time.DateOnly))
		fmt.Fprintf(w, "   %s\n", rec.Summary)
		for _, src := range rec.Sources {
			fmt.Fprintf(w, "   - %s <%s>\n", src.Title, src.URL)
		}
	}
}
