package jurisdictions

import (
	"github.com/lendingdesk/court-search-service/common/config"
	"github.com/lendingdesk/court-search-service/common/courts"
	"github.com/lendingdesk/court-search-service/jurisdictions/broward"
	"github.com/lendingdesk/court-search-service/jurisdictions/miamidade"
	"github.com/lendingdesk/court-search-service/jurisdictions/newyork"
	"github.com/rs/zerolog/log"
)

// Registry holds the browser session and the orchestrator built over
// every jurisdiction the deployment can reach.
type Registry struct {
	Browser      *courts.Browser
	Orchestrator *courts.Orchestrator
}

// Setup connects to the browser and registers every adapter whose
// prerequisites are met. Broward needs subscriber credentials and is
// skipped without them, the public sites are always registered.
func Setup(cfg config.Config) (*Registry, error) {
	var (
		browser *courts.Browser
		err     error
	)
	if cfg.Courts.BrowserControlURL != "" {
		browser, err = courts.NewBrowser(cfg.Courts.BrowserControlURL, cfg.Courts.PageTimeout())
	} else {
		log.Info().Bool("headless", cfg.Courts.Headless).Msg("No browser control URL configured, launching locally")
		browser, err = courts.LaunchBrowser(cfg.Courts.Headless, cfg.Courts.PageTimeout())
	}
	if err != nil {
		return nil, err
	}

	var entries []courts.Entry

	miami, err := miamidade.New(browser)
	if err != nil {
		return nil, err
	}
	entries = append(entries, courts.Entry{Adapter: miami})

	if cfg.Courts.BrowardUsername != "" && cfg.Courts.BrowardPassword != "" {
		brow, err := broward.New(browser, broward.Credentials{
			Username: cfg.Courts.BrowardUsername,
			Password: cfg.Courts.BrowardPassword,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, courts.Entry{Adapter: brow})
	} else {
		log.Warn().Msg("Broward credentials not configured, skipping jurisdiction")
	}

	ny, err := newyork.New(browser)
	if err != nil {
		return nil, err
	}
	// The statewide site sits behind bot detection, give it retries.
	entries = append(entries, courts.Entry{Adapter: ny, Retrier: courts.NewRetrier()})

	orch := courts.NewOrchestrator(cfg.Courts.CourtesyDelay(), entries...)

	log.Info().
		Strs("jurisdictions", orch.Jurisdictions()).
		Msg("Jurisdiction registry ready")

	return &Registry{
		Browser:      browser,
		Orchestrator: orch,
	}, nil
}
