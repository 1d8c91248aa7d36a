package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/varcodes/trackmyprices/internal/api/handlers"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductsTable(w io.Writer, products []domain.Product) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tPRICE\tLOWEST\tHIGHEST\tSTOCK\tSUBSCRIBERS\n")
	for i := range products {
		p := &products[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID,
			truncate(p.Title, 40),
			money(p.CurrentPrice, p.Currency),
			money(p.LowestPrice, p.Currency),
			money(p.HighestPrice, p.Currency),
			stock(p.IsOutOfStock),
			p.SubscriberCount,
		)
	}
	return tw.finish()
}

func printProductDetail(w io.Writer, p *domain.Product) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Title:\t%s\n", p.Title)
	tw.writef("URL:\t%s\n", p.URL)
	tw.writef("Price:\t%s\n", money(p.CurrentPrice, p.Currency))
	if p.OriginalPrice > 0 && p.OriginalPrice != p.CurrentPrice {
		tw.writef("Was:\t%s\n", money(p.OriginalPrice, p.Currency))
	}
	tw.writef("Lowest:\t%s\n", money(p.LowestPrice, p.Currency))
	tw.writef("Highest:\t%s\n", money(p.HighestPrice, p.Currency))
	tw.writef("Average:\t%s\n", money(p.AveragePrice, p.Currency))
	tw.writef("Stock:\t%s\n", stock(p.IsOutOfStock))
	if p.Stars > 0 {
		tw.writef("Rating:\t%.1f (%d reviews)\n", p.Stars, p.ReviewsCount)
	}
	tw.writef("Subscribers:\t%d\n", p.SubscriberCount)
	tw.writef("Updated:\t%s\n", p.UpdatedAt.Format(timeLayout))
	tw.writef("History:\t%d points\n", len(p.PriceHistory))
	for _, h := range p.PriceHistory {
		tw.writef("  %s\t%s\n", h.Date.Format(timeLayout), money(h.Price, p.Currency))
	}
	return tw.finish()
}

func printCycleReport(w io.Writer, r *handlers.CycleBody) error {
	tw := newTabWriter(w)
	tw.writef("Status:\t%s\n", r.Status)
	if r.CycleID != "" {
		tw.writef("Cycle:\t%s\n", r.CycleID)
	}
	tw.writef("Updated:\t%d\n", len(r.Data))
	tw.writef("Notified:\t%d\n", r.Notified)
	tw.writef("Duration:\t%dms\n", r.DurationMS)
	if len(r.Failures) > 0 {
		tw.writef("\nPRODUCT\tSTAGE\tERROR\n")
		for _, f := range r.Failures {
			tw.writef("%s\t%s\t%s\n", f.ProductID, f.Stage, truncate(f.Error, 60))
		}
	}
	return tw.finish()
}

func printCycleRunsTable(w io.Writer, runs []domain.CycleRun) error {
	tw := newTabWriter(w)
	tw.writef("ID\tSTATUS\tSTARTED\tCOMPLETED\tUPDATED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format(timeLayout)
		}
		updated := "-"
		if r.RowsAffected != nil {
			updated = fmt.Sprintf("%d", *r.RowsAffected)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Status,
			r.StartedAt.Format(timeLayout),
			completed,
			updated,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(v float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	if len([]rune(currency)) == 1 {
		return fmt.Sprintf("%s%.2f", currency, v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}

func stock(outOfStock bool) string {
	if outOfStock {
		return "out"
	}
	return "in"
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
