package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"listings-service/internal/adapters/listings_api_client"
	logger_adapter "listings-service/internal/adapters/logger"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/filterstate"

	"github.com/google/uuid"
)

type options struct {
	baseURL        string
	search         string
	propertyTypes  string
	bedrooms       string
	bathrooms      string
	minArea        float64
	maxArea        float64
	amenities      string
	infrastructure string
	verbose        bool
}

func main() {
	opts := options{}
	flag.StringVar(&opts.baseURL, "base-url", envOr("LISTINGS_BASE_URL", "http://localhost:8080"), "listings-service base URL")
	flag.StringVar(&opts.search, "search", "", "substring of the title or description")
	flag.StringVar(&opts.propertyTypes, "type", "", "property types, comma separated")
	flag.StringVar(&opts.bedrooms, "bedrooms", "", "bedroom thresholds, comma separated")
	flag.StringVar(&opts.bathrooms, "bathrooms", "", "bathroom thresholds, comma separated")
	flag.Float64Var(&opts.minArea, "min-area", domain.DefaultMinArea, "minimum total area")
	flag.Float64Var(&opts.maxArea, "max-area", domain.DefaultMaxArea, "maximum total area")
	flag.StringVar(&opts.amenities, "amenity", "", "required amenities, comma separated")
	flag.StringVar(&opts.infrastructure, "infra", "", "required infrastructure, comma separated")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: os.Stderr, Level: level, UseColor: true}).
		WithFields(port.Fields{"component": "listings-cli"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = contextkeys.ContextWithLogger(ctx, logger)
	ctx = contextkeys.ContextWithTraceID(ctx, uuid.NewString())

	if err := run(ctx, opts, os.Stdout); err != nil {
		logger.Error("Search failed", err, nil)
		var statusErr *listings_api_client.StatusError
		if errors.As(err, &statusErr) && statusErr.SignInURL != "" {
			fmt.Fprintf(os.Stderr, "sign in at %s and export LISTINGS_TOKEN\n", statusErr.SignInURL)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	client := listings_api_client.NewClient(opts.baseURL, os.Getenv("LISTINGS_TOKEN"))

	var result *domain.ListingSearchResult
	navigator := filterstate.NavigatorFunc(func(ctx context.Context, query string) error {
		res, err := client.FindListingsByQuery(ctx, query)
		if err != nil {
			return err
		}
		result = res
		return nil
	})

	// Без debounce: все изменения применяются одним переходом через Apply
	controller := filterstate.New(navigator, filterstate.WithDebounce(0), filterstate.WithContext(ctx))
	defer controller.Close()

	if err := applyOptions(controller, opts); err != nil {
		return err
	}

	requestCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := controller.Apply(requestCtx); err != nil {
		return err
	}

	fmt.Fprintf(out, "query: ?%s (%d active filters)\n", controller.QueryString(), controller.ActiveCount())
	return printListings(out, result)
}

// applyOptions переносит флаги командной строки в контроллер теми же операциями, что и панель фильтров
func applyOptions(c *filterstate.Controller, opts options) error {
	c.SetSearch(opts.search)
	c.SetArea(opts.minArea, opts.maxArea)

	toggles := []struct {
		field domain.FilterField
		raw   string
	}{
		{domain.FieldPropertyType, opts.propertyTypes},
		{domain.FieldBedrooms, opts.bedrooms},
		{domain.FieldBathrooms, opts.bathrooms},
		{domain.FieldAmenities, opts.amenities},
		{domain.FieldInfrastructure, opts.infrastructure},
	}
	for _, t := range toggles {
		for _, value := range splitCSV(t.raw) {
			if err := c.Toggle(t.field, value); err != nil {
				return err
			}
		}
	}
	return c.Current().Validate()
}

func splitCSV(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		// повторный Toggle снял бы значение
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

func printListings(out io.Writer, result *domain.ListingSearchResult) error {
	if result == nil {
		return errors.New("no response from listings service")
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tAREA\tBEDROOMS\tBATHROOMS\tCREATED")
	for _, l := range result.Listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			l.ID, l.Title, l.PropertyType,
			strconv.FormatFloat(l.TotalArea, 'f', -1, 64),
			l.Bedrooms, l.Bathrooms, l.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d listing(s)\n", result.Count)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
