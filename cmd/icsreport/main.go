package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"icsreport/internal/config"
	"icsreport/internal/expand"
	"icsreport/internal/ics"
	appLog "icsreport/internal/log"
	"icsreport/internal/model"
	"icsreport/internal/report"
)

type flagConfig struct {
	configPath string
	weeks      int
	now        string
	width      int
	cronSpec   string
	strict     bool
	loglevel   string
}

func main() {
	flags := parseFlags()
	appLog.SetLevel(flags.loglevel)

	configPath := flags.configPath
	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			appLog.Error("failed to resolve default config path", err)
			os.Exit(1)
		}
	}

	conf, err := config.Load(configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", configPath)
		os.Exit(1)
	}

	// CLI flags override config file values if provided.
	if flags.weeks > 0 {
		conf.WindowWeeks = flags.weeks
	}
	if flags.width > 0 {
		conf.ReportWidth = flags.width
	}
	if flags.cronSpec != "" {
		conf.RefreshCron = flags.cronSpec
	}
	if flags.strict {
		conf.Strict = true
	}

	sources := make([]ics.Source, 0, len(conf.Calendars)+flag.NArg())
	for _, c := range conf.Calendars {
		sources = append(sources, ics.Source{ID: c.ID, Location: c.Location})
	}
	for i, arg := range flag.Args() {
		sources = append(sources, ics.Source{ID: "arg" + strconv.Itoa(i+1), Location: arg})
	}
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "usage: icsreport [flags] <file-or-url> ...")
		os.Exit(2)
	}

	loc := time.Local
	if conf.Timezone != "" {
		loc, err = time.LoadLocation(conf.Timezone)
		if err != nil {
			appLog.Error("invalid timezone", err, "timezone", conf.Timezone)
			os.Exit(1)
		}
	}

	now := time.Now().In(loc)
	if flags.now != "" {
		now, err = parseNow(flags.now, loc)
		if err != nil {
			appLog.Error("invalid -now value", err, "now", flags.now)
			os.Exit(1)
		}
	}

	appLog.Info("effective config",
		"timezone", loc.String(),
		"window_weeks", conf.WindowWeeks,
		"report_width", conf.ReportWidth,
		"strict", conf.Strict,
		"refresh", conf.RefreshCron,
		"source_count", len(sources),
	)

	app := &app{
		conf:    conf,
		loader:  ics.NewLoader(conf.CacheDir),
		sources: sources,
		loc:     loc,
	}

	if conf.RefreshCron == "" {
		if err := app.run(context.Background(), now); err != nil {
			appLog.Error("report failed", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: re-render on the cron schedule until interrupted. Each
	// tick re-anchors the window at its own current time.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := app.run(ctx, now); err != nil {
		appLog.Error("report failed", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := app.run(ctx, time.Now().In(loc)); err != nil {
			appLog.Error("report failed", err)
		}
	}); err != nil {
		appLog.Error("invalid cron schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("icsreport exiting")
}

type app struct {
	conf    *config.Config
	loader  *ics.Loader
	sources []ics.Source
	loc     *time.Location
}

// run executes one full pipeline pass: load, normalize, expand against the
// window anchored at now, group and render to stdout.
//
// With Strict set, the first unreadable document or malformed event field
// aborts the pass. Otherwise failures are logged and skipped; run only
// fails when every document failed to load.
func (a *app) run(ctx context.Context, now time.Time) error {
	window := model.NewSpan(now, now.AddDate(0, 0, 7*a.conf.WindowWeeks))

	events := make([]model.Event, 0)
	loaded := 0
	for _, src := range a.sources {
		doc, err := a.loader.Load(ctx, src)
		if err != nil {
			if a.conf.Strict {
				return fmt.Errorf("load %s: %w", src.Redacted(), err)
			}
			appLog.Error("calendar load failed, skipping", err, "id", src.ID, "location", src.Redacted())
			continue
		}

		evs, fieldErrs, err := ics.Parse(doc.Source, doc.Body)
		if err != nil {
			if a.conf.Strict {
				return fmt.Errorf("parse %s: %w", src.Redacted(), err)
			}
			appLog.Error("calendar parse failed, skipping", err, "id", src.ID, "location", src.Redacted())
			continue
		}
		if a.conf.Strict && len(fieldErrs) > 0 {
			return fmt.Errorf("parse %s: %w", src.Redacted(), fieldErrs[0])
		}

		loaded++
		events = append(events, evs...)
	}
	if loaded == 0 {
		return fmt.Errorf("no calendar could be loaded (%d sources)", len(a.sources))
	}

	result, err := expand.Expand(events, expand.Config{
		Window:          window,
		DisplayLocation: a.loc,
	})
	if err != nil {
		return err
	}
	if a.conf.Strict && len(result.BadRules) > 0 {
		return result.BadRules[0]
	}

	groups := report.Group(result.Occurrences)

	appLog.Info("report ready",
		"events", len(events),
		"occurrences", len(result.Occurrences),
		"days", len(groups),
		"window_start", window.Start.Format(time.RFC3339),
		"window_end", window.End.Format(time.RFC3339),
	)

	return report.NewFormatter(a.conf.ReportWidth).Render(os.Stdout, groups)
}

// parseNow accepts an RFC 3339 instant or a bare date.
func parseNow(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(loc), nil
	}
	return time.ParseInLocation("2006-01-02", v, loc)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to config file (default ~/.icsreport.yaml)")
	flag.IntVar(&cfg.weeks, "weeks", 0, "Look-ahead window in weeks (overrides config)")
	flag.StringVar(&cfg.now, "now", "", "Report reference time, RFC 3339 or YYYY-MM-DD (default: current time)")
	flag.IntVar(&cfg.width, "width", 0, "Total report width in columns (overrides config)")
	flag.StringVar(&cfg.cronSpec, "cron", "", "Watch mode: re-render on this cron schedule")
	flag.BoolVar(&cfg.strict, "strict", false, "Abort on the first unreadable document or malformed field")
	flag.StringVar(&cfg.loglevel, "loglevel", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	return cfg
}
