package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

const abstractWidth = 160

// renderSnapshot prints the current page in the snapshot's view mode
// followed by the facet distributions, starring the selected values
func renderSnapshot(w io.Writer, snap domain.Snapshot, filters *domain.FilterState) error {
	fmt.Fprintf(w, "%d results, page %d of %d\n\n",
		snap.TotalItems, snap.Pagination.CurrentPage, snap.TotalPages)

	if snap.ViewMode == domain.ViewModeGrid {
		if err := renderGrid(w, snap.Items); err != nil {
			return err
		}
	} else {
		renderList(w, snap.Items)
	}

	fmt.Fprintln(w)
	renderFacets(w, snap.Facets, filters)
	return nil
}

func renderList(w io.Writer, items []domain.ObjectSummary) {
	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s]\n", orDash(item.Title), orDash(item.Type))
		if item.Author != "" || item.Issued != "" {
			fmt.Fprintf(w, "  %s (%s)\n", orDash(item.Author), orDash(item.Issued))
		}
		if item.Abstract != "" {
			fmt.Fprintf(w, "  %s\n", truncate(item.Abstract, abstractWidth))
		}
		fmt.Fprintf(w, "  id: %s, file: %s\n", item.ID, yesNo(item.HasFile))
	}
}

func renderGrid(w io.Writer, items []domain.ObjectSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tTYPE\tAUTHOR\tISSUED\tFILE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			truncate(orDash(item.Title), 48), orDash(item.Type),
			orDash(item.Author), orDash(item.Issued), yesNo(item.HasFile))
	}
	return tw.Flush()
}

func renderFacets(w io.Writer, f domain.Facets, filters *domain.FilterState) {
	renderFacet(w, "Author", f.Authors, domain.DimensionAuthor, filters)
	renderFacet(w, "Type", f.ItemTypes, domain.DimensionItemType, filters)
	renderFacet(w, "Date", f.DateRanges, domain.DimensionDateRange, filters)
	fmt.Fprintf(w, "Has file: yes (%d), no (%d)\n", f.HasFile.Yes, f.HasFile.No)
}

func renderFacet(w io.Writer, label string, entries []domain.FacetEntry, dim domain.Dimension, filters *domain.FilterState) {
	if len(entries) == 0 {
		return
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%d)", e.Key, e.Count)
		if filters.IsSelected(dim, e.Key) {
			parts[i] = "*" + parts[i]
		}
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(parts, ", "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
