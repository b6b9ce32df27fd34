package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/BrowseKit/browser"
	"github.com/GriffinCanCode/BrowseKit/internal/config"
	"github.com/GriffinCanCode/BrowseKit/internal/logging"
	"github.com/GriffinCanCode/BrowseKit/page"
	"github.com/GriffinCanCode/BrowseKit/session"
)

func main() {
	var (
		urlFlag      = flag.String("url", "", "URL to open")
		configFile   = flag.String("config", "", "Optional YAML config file")
		showLinks    = flag.Bool("links", false, "List links on the page")
		showForms    = flag.Bool("forms", false, "List forms on the page")
		showInfo     = flag.Bool("info", false, "Show page metadata")
		followFlag   = flag.String("follow", "", "Follow the first link whose href matches this pattern")
		downloadFlag = flag.String("download", "", "Download the first link whose href matches this pattern")
		outFlag      = flag.String("out", "", "Destination path for -download")
		jsonOut      = flag.Bool("json", false, "Emit JSON instead of text")
		verbose      = flag.Int("verbose", 0, "Verbosity: 0 silent, 1 progress marks, 2 URLs")
		dev          = flag.Bool("dev", false, "Development mode (colored debug logs)")
	)
	flag.Parse()

	if *urlFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfig(*configFile)
	if *verbose > 0 {
		cfg.Browser.Verbose = *verbose
	}

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development || *dev,
		OutputPaths: []string{"stderr"},
	}
	if *dev {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	b := browser.New(browser.Config{
		Session:    session.New(sessionConfig(cfg)),
		RaiseOn404: cfg.Browser.RaiseOn404,
		Verbose:    cfg.Browser.Verbose,
		Debug:      cfg.Browser.Debug,
		Logger:     logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, b, options{
		url:      *urlFlag,
		links:    *showLinks,
		forms:    *showForms,
		info:     *showInfo,
		follow:   *followFlag,
		download: *downloadFlag,
		out:      *outFlag,
		json:     *jsonOut,
	}); err != nil {
		logger.Error("browsekit failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	url      string
	links    bool
	forms    bool
	info     bool
	follow   string
	download string
	out      string
	json     bool
}

func run(ctx context.Context, b *browser.StatefulBrowser, opts options) error {
	if _, err := b.Open(ctx, opts.url); err != nil {
		return err
	}

	if opts.follow != "" {
		if _, err := b.FollowLink(ctx, browser.LinkRef{Pattern: opts.follow}, nil); err != nil {
			return err
		}
	}

	if opts.download != "" {
		resp, err := b.DownloadLink(ctx, browser.LinkRef{Pattern: opts.download}, opts.out, nil)
		if err != nil {
			return err
		}
		fmt.Printf("downloaded %s (%d bytes, %s)\n", resp.URL, len(resp.Body), resp.ContentType())
	}

	if opts.links {
		if err := printLinks(b, opts.json); err != nil {
			return err
		}
	}
	if opts.forms {
		if err := printForms(b, opts.json); err != nil {
			return err
		}
	}
	if opts.info {
		if err := printInfo(b, opts.json); err != nil {
			return err
		}
	}

	if !opts.links && !opts.forms && !opts.info && opts.download == "" {
		fmt.Println(b.URL())
	}
	return nil
}

func printLinks(b *browser.StatefulBrowser, asJSON bool) error {
	links, err := b.Links(page.LinkFilter{})
	if err != nil {
		return err
	}

	if asJSON {
		type link struct {
			Href string `json:"href"`
			Text string `json:"text"`
		}
		out := make([]link, 0, len(links))
		for _, l := range links {
			out = append(out, link{Href: l.Href, Text: l.Text})
		}
		return emitJSON(out)
	}

	for _, l := range links {
		fmt.Printf("%s\t%s\n", l.Href, l.Text)
	}
	return nil
}

func printForms(b *browser.StatefulBrowser, asJSON bool) error {
	doc := b.Page()
	if doc == nil {
		return fmt.Errorf("no page loaded")
	}

	type form struct {
		Action   string `json:"action"`
		Method   string `json:"method"`
		Enctype  string `json:"enctype"`
		Controls int    `json:"controls"`
		Submits  int    `json:"submits"`
	}

	var out []form
	for _, f := range doc.Forms() {
		out = append(out, form{
			Action:   f.Action(),
			Method:   f.Method(),
			Enctype:  f.Enctype(),
			Controls: len(f.Controls()),
			Submits:  len(f.SubmitControls()),
		})
	}

	if asJSON {
		return emitJSON(out)
	}
	for _, f := range out {
		fmt.Printf("%s %s (%s) %d controls, %d submits\n",
			f.Method, f.Action, f.Enctype, f.Controls, f.Submits)
	}
	return nil
}

func printInfo(b *browser.StatefulBrowser, asJSON bool) error {
	doc := b.Page()
	if doc == nil {
		return fmt.Errorf("no page loaded")
	}

	md := doc.Metadata()
	if asJSON {
		return emitJSON(md)
	}
	fmt.Printf("title: %s\n", md.Title)
	if md.Canonical != "" {
		fmt.Printf("canonical: %s\n", md.Canonical)
	}
	for k, v := range md.Meta {
		fmt.Printf("meta %s: %s\n", k, v)
	}
	return nil
}

func emitJSON(v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.LoadOrDefault()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}

func sessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		UserAgent:       cfg.Session.UserAgent,
		Timeout:         time.Duration(cfg.Session.TimeoutSeconds) * time.Second,
		RetryMax:        cfg.Session.RetryMax,
		RetryWaitMin:    time.Duration(cfg.Session.RetryWaitMinSec) * time.Second,
		RetryWaitMax:    time.Duration(cfg.Session.RetryWaitMaxSec) * time.Second,
		RateLimitRPS:    cfg.Session.RateLimitRPS,
		FollowRedirects: cfg.Session.FollowRedirects,
		MaxRedirects:    10,
		VerifySSL:       cfg.Session.VerifySSL,
		Proxy:           cfg.Session.Proxy,
	}
}
