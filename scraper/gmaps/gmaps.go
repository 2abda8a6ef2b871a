package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/schollz/progressbar/v3"

	"github.com/ItsCxdy/google-maps-scraper/config"
	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

const (
	searchBaseURL = "https://www.google.com/maps/search/"

	scrollRounds   = 3
	scrollPause    = 2 * time.Second
	attemptTimeout = 2 * time.Second
)

// Scraper drives one browser session through a Google Maps search and reads
// the detail panel of each result in turn.
type Scraper struct {
	cfg       config.Config
	logger    *utils.Logger
	assembler *Assembler
	source    *PageSource
}

// New creates a ready-to-use Google Maps Scraper.
func New(cfg config.Config, logger *utils.Logger) *Scraper {
	assembler := NewAssembler(logger)
	assembler.FormatPhone = cfg.FormatPhone

	return &Scraper{
		cfg:       cfg,
		logger:    logger,
		assembler: assembler,
		source:    NewPageSource(attemptTimeout),
	}
}

// BuildSearchURL returns the Maps search URL for "query in location".
func BuildSearchURL(query, location string) string {
	search := query
	if location != "" {
		search = query + " in " + location
	}
	return searchBaseURL + url.QueryEscape(search)
}

// Search opens a browser, runs the search and visits up to MaxResults places.
// The browser is closed on every return path. Launch and navigation failures
// return no places; cancelling ctx stops the run and returns what was
// collected so far together with ctx's error.
func (s *Scraper) Search(ctx context.Context, query, location string) ([]*models.Place, error) {
	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Debug("[gmaps] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(s.cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("gmaps: launch browser: %w", err)
	}
	s.logger.Info("[gmaps] Browser started (headless: %v)", s.cfg.Headless)

	searchURL := BuildSearchURL(query, location)
	s.logger.Info("[gmaps] Searching: %s", searchURL)
	if err := chromedp.Run(tabCtx, chromedp.Navigate(searchURL)); err != nil {
		return nil, fmt.Errorf("gmaps: navigate %s: %w", searchURL, err)
	}

	if err := s.waitFor(tabCtx, feedSelector); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("[gmaps] Results feed not detected: %v", err)
	}

	s.scrollFeed(tabCtx)

	return s.visitResults(tabCtx)
}

// waitFor blocks until selector matches, bounded by the configured timeout.
func (s *Scraper) waitFor(ctx context.Context, selector string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

// scrollFeed scrolls the results feed so more places are loaded.
func (s *Scraper) scrollFeed(ctx context.Context) {
	script := fmt.Sprintf(`
		(function() {
			var feed = document.querySelector(%q);
			if (!feed) return false;
			feed.scrollTop = feed.scrollHeight;
			return true;
		})()
	`, feedSelector)

	for i := 0; i < scrollRounds; i++ {
		var scrolled bool
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(script, &scrolled),
			chromedp.Sleep(scrollPause),
		); err != nil {
			s.logger.Debug("[gmaps] Scroll %d failed: %v", i+1, err)
			return
		}
		if !scrolled {
			s.logger.Debug("[gmaps] No feed to scroll")
			return
		}
	}
}

type clickResult struct {
	OK   bool   `json:"ok"`
	Href string `json:"href"`
}

// visitResults clicks each result link in turn and assembles its panel.
func (s *Scraper) visitResults(ctx context.Context) ([]*models.Place, error) {
	var count int
	if err := chromedp.Run(ctx, chromedp.Evaluate(
		fmt.Sprintf(`document.querySelectorAll(%q).length`, resultLinkSelector), &count,
	)); err != nil {
		return nil, fmt.Errorf("gmaps: count results: %w", err)
	}

	total := min(count, s.cfg.MaxResults)
	s.logger.Info("[gmaps] Found %d results — extracting details of %d", count, total)

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting places"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	visited := utils.NewKeySet()
	places := make([]*models.Place, 0, total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return places, err
		}

		place, err := s.visitResult(ctx, i, visited)
		_ = bar.Add(1)
		if err != nil {
			if ctx.Err() != nil {
				return places, ctx.Err()
			}
			s.logger.Debug("[gmaps] Skipping result %d: %v", i, err)
			continue
		}
		if place == nil {
			continue
		}

		places = append(places, place)
		s.logger.Debug("[gmaps] Extracted: %s", place.Name)
	}

	s.logger.Info("[gmaps] Extraction complete — %d places from %d distinct links", len(places), visited.Size())
	return places, nil
}

// visitResult opens the panel of the i-th result. A nil place with a nil
// error means the panel showed no place or the link was already visited.
func (s *Scraper) visitResult(ctx context.Context, i int, visited *utils.KeySet) (*models.Place, error) {
	clickScript := fmt.Sprintf(`
		(function() {
			var links = document.querySelectorAll(%q);
			if (%d >= links.length) return { ok: false, href: '' };
			var link = links[%d];
			link.click();
			return { ok: true, href: link.href || '' };
		})()
	`, resultLinkSelector, i, i)

	var res clickResult
	if err := chromedp.Run(ctx, chromedp.Evaluate(clickScript, &res)); err != nil {
		return nil, fmt.Errorf("click result: %w", err)
	}
	if !res.OK {
		return nil, fmt.Errorf("result link %d no longer present", i)
	}
	if res.Href != "" && !visited.Add(res.Href) {
		s.logger.Debug("[gmaps] Already visited: %s", res.Href)
		return nil, nil
	}

	if err := chromedp.Run(ctx, chromedp.Sleep(s.cfg.DelayBetweenRequests)); err != nil {
		return nil, err
	}
	if err := s.waitFor(ctx, panelReadySelector); err != nil {
		return nil, fmt.Errorf("panel not ready: %w", err)
	}

	place, ok := s.assembler.Assemble(ctx, s.source)
	if !ok {
		return nil, nil
	}
	return place, nil
}

// findChromeBinary locates a Chrome/Chromium binary. An empty result lets
// chromedp use its own lookup.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
