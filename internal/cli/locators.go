package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/PuerkitoBio/goquery"

	"github.com/cpjust/shopcheck/internal/locator"
	"github.com/cpjust/shopcheck/internal/report"
)

// ListLocators prints every key of catalog with its selector.
func ListLocators(out io.Writer, catalog *locator.Catalog) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, key := range catalog.Keys() {
		selector, err := catalog.Resolve(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, selector)
	}
	return tw.Flush()
}

// VerifyLocators fetches url and checks each static key's selector against
// the served markup. It returns the number of keys that matched nothing.
func VerifyLocators(ctx context.Context, client *http.Client, url string, catalog *locator.Catalog, out io.Writer) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	missing := 0
	for _, m := range locator.Verify(doc, catalog, locator.StaticKeys()...) {
		if m.Found() {
			_, _ = report.SuccColor.Fprintf(out, "%s %s", report.SuccMark, m.Key)
			_, _ = report.GrayColor.Fprintf(out, " %s (%d)\n", m.Selector, m.Count)
			continue
		}
		missing++
		_, _ = report.FailColor.Fprintf(out, "%s %s", report.FailMark, m.Key)
		if m.Err != nil {
			_, _ = fmt.Fprintf(out, " %v\n", m.Err)
		} else {
			_, _ = report.GrayColor.Fprintf(out, " %s (0)\n", m.Selector)
		}
	}
	return missing, nil
}
