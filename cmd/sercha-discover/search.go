package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/services"
)

// facetFlags maps each repeatable facet flag to its dimension
var facetFlags = []struct {
	flag string
	dim  domain.Dimension
}{
	{"author", domain.DimensionAuthor},
	{"subject", domain.DimensionSubject},
	{"date-range", domain.DimensionDateRange},
	{"item-type", domain.DimensionItemType},
}

func searchCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Free-text query",
		},
		&cli.StringFlag{
			Name:  "has-file",
			Usage: "Only objects with (yes) or without (no) an attached file",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page to show",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "per-page",
			Usage: "Items per page (defaults to the configured page size)",
		},
		&cli.StringFlag{
			Name:  "view",
			Usage: "Layout: list or grid",
			Value: string(domain.ViewModeList),
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the session snapshot as JSON",
		},
	}
	for _, f := range facetFlags {
		flags = append(flags, &cli.StringSliceFlag{
			Name:  f.flag,
			Usage: fmt.Sprintf("Select a %s facet value (repeatable)", f.flag),
		})
	}

	return &cli.Command{
		Name:  "search",
		Usage: "Run one faceted search against the repository",
		Flags: flags,
		// Author names carry commas ("Doe, Jane")
		DisableSliceFlagSeparator: true,
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()
			return runSearch(ctx, a, c)
		},
	}
}

func runSearch(ctx context.Context, a *app, c *cli.Command) error {
	filters, err := filtersFromFlags(c)
	if err != nil {
		return err
	}

	session := services.NewSearchSession(services.SearchSessionConfig{
		Backend:      a.client,
		Events:       a.events,
		ItemsPerPage: a.cfg.Search.ItemsPerPage,
		Filters:      filters,
		Logger:       a.logger,
	})
	if _, err := session.Search(ctx); err != nil {
		return err
	}

	var cmds []domain.Command
	if n := c.Int("per-page"); n != 0 {
		cmds = append(cmds, domain.SetItemsPerPage{ItemsPerPage: n})
	}
	if page := c.Int("page"); page != 1 {
		cmds = append(cmds, domain.Paginate{Action: domain.PageGoTo, Page: page})
	}
	cmds = append(cmds, domain.SetViewMode{Mode: domain.ViewMode(c.String("view"))})
	for _, cmd := range cmds {
		if err := session.Apply(ctx, cmd); err != nil {
			return err
		}
	}

	snap := session.Snapshot()
	out := c.Root().Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return renderSnapshot(out, snap, session.Filters())
}

func filtersFromFlags(c *cli.Command) (*domain.FilterState, error) {
	filters := domain.NewFilterState()
	filters.SetQueryTerm(c.String("query"))

	for _, f := range facetFlags {
		for _, value := range c.StringSlice(f.flag) {
			if err := filters.Toggle(f.dim, value, true); err != nil {
				return nil, err
			}
		}
	}

	hasFile, err := parseHasFile(c.String("has-file"))
	if err != nil {
		return nil, err
	}
	filters.SetHasFile(hasFile)
	return filters, nil
}

// parseHasFile reads yes/no; empty leaves the constraint unset
func parseHasFile(value string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return nil, nil
	case "yes", "true", "1":
		v := true
		return &v, nil
	case "no", "false", "0":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: has-file must be yes or no, got %q", domain.ErrInvalidInput, value)
	}
}
