package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bnema/recall/internal/cli/styles"
	"github.com/bnema/recall/internal/domain/entity"
)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResults prints one result per line: marker, URL, title, visits, last visit.
func writeResults(w io.Writer, results []entity.SearchResult, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		marker := " "
		if r.IsActive {
			marker = "*"
		}
		last := "-"
		if r.LastVisitTime > 0 {
			last = styles.RelativeTimeFrom(time.UnixMilli(r.LastVisitTime), now)
		}
		if _, err := fmt.Fprintf(tw, "%s %s\t%s\t%d\t%s\n", marker, r.URL, r.Title, r.VisitCount, last); err != nil {
			return err
		}
	}
	return tw.Flush()
}
