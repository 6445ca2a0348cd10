package zillow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"zillow-wholesale/config"
	"zillow-wholesale/models"
	"zillow-wholesale/utils"
)

const (
	cardWaitTimeout = 10 * time.Second
	pageTimeout     = 90 * time.Second
)

// Scraper loads Zillow search result pages in headless Chrome and extracts
// the property cards.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
}

// New creates a ready-to-use Zillow Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{cfg: cfg, logger: logger}
}

// Fetch loads the search page for params and returns at most
// params.MaxResults raw listings. A page that shows no property cards
// within ten seconds yields an empty result, not an error.
func (s *Scraper) Fetch(ctx context.Context, params config.SearchParams) ([]models.RawListing, error) {
	searchURL, err := BuildSearchURL(params)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[zillow] Searching: %s", searchURL)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Debug("[zillow] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
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

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, pageTimeout)
	defer cancelTimeout()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(searchURL)); err != nil {
		return nil, fmt.Errorf("zillow: navigate: %w", err)
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, cardWaitTimeout)
	err = chromedp.Run(waitCtx, chromedp.WaitReady(cardSelector, chromedp.ByQuery))
	cancelWait()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && tabCtx.Err() == nil {
			s.logger.Warn("[zillow] No property cards found or page didn't load properly")
			return []models.RawListing{}, nil
		}
		return nil, fmt.Errorf("zillow: wait for cards: %w", err)
	}

	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Sleep(s.cfg.RequestDelay()),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("zillow: read results page: %w", err)
	}

	base, _ := url.Parse(baseURL)
	listings, err := ExtractCards(html, base, params.MaxResults)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[zillow] Extracted %d property cards", len(listings))
	return listings, nil
}

// findChromeBinary locates Chrome/Chromium, preferring the configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
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
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
