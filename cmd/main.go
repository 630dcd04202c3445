package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/leadscout/linkedin-post-parser/internal/app"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
)

func main() {
	var (
		keywords    = flag.String("keywords", "", "comma-separated event keywords to search for")
		companies   = flag.String("companies", "", "comma-separated company names to combine with keywords")
		urls        = flag.String("urls", "", "comma-separated post URLs to fetch directly, skipping search")
		slugs       = flag.String("slugs", "", "comma-separated LinkedIn company-page slugs")
		companyOnly = flag.Bool("company-only", false, "keep only posts authored by the given companies")
		since       = flag.String("since", "", "keep only posts published on or after this date (2006-01-02)")
		until       = flag.String("until", "", "keep only posts published on or before this date (2006-01-02)")
		top         = flag.Int("top", 0, "max results per search query")
		saveHTML    = flag.Bool("save-html", false, "save each fetched page as an .html file")
		htmlDir     = flag.String("html-dir", "", "directory for saved pages; implies -save-html")
		masterJSON  = flag.String("json", "", "path of the master JSON collection")
		masterExcel = flag.String("excel", "", "path of the master Excel spreadsheet")
		jsonDir     = flag.String("json-dir", "", "directory for per-post JSON files")
		batchDir    = flag.String("batch-dir", "", "parse saved .html files from this directory instead of fetching")
		watch       = flag.Duration("watch", 0, "re-run the pipeline on this interval (e.g. 30m)")
		bot         = flag.Bool("bot", false, "run as a Telegram bot instead of a one-shot pipeline")
	)
	flag.Parse()

	log := logger.New(logger.Opts{})

	mode := app.RunMode{
		Pipeline: pipeline.Options{
			Keywords:     splitList(*keywords),
			Companies:    splitList(*companies),
			URLs:         splitList(*urls),
			CompanySlugs: splitList(*slugs),
			CompanyOnly:  *companyOnly,
			TopPerQuery:  *top,
			SaveHTML:     *saveHTML || *htmlDir != "",
			HTMLDir:      *htmlDir,
			MasterJSON:   *masterJSON,
			MasterExcel:  *masterExcel,
			JSONDir:      *jsonDir,
		},
		BatchDir:   *batchDir,
		WatchEvery: *watch,
		Bot:        *bot,
	}

	var err error
	if mode.Pipeline.Since, err = parseDate(*since); err != nil {
		log.Error("Invalid -since date", "value", *since, "error", err)
		os.Exit(2)
	}
	if mode.Pipeline.Until, err = parseDate(*until); err != nil {
		log.Error("Invalid -until date", "value", *until, "error", err)
		os.Exit(2)
	}

	fxApp := app.New(log, mode)

	if err := fxApp.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Blocks until a one-shot mode calls Shutdown or a signal arrives.
	sig := <-fxApp.Wait()

	if err := fxApp.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
	os.Exit(sig.ExitCode)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
