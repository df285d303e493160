package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	WebDir   string     `env:"WEB_DIR" envDefault:"web"`

	RoundStartingPoints     int           `env:"ROUND_STARTING_POINTS" envDefault:"100"`
	DirectoryStartingPoints int           `env:"DIRECTORY_STARTING_POINTS" envDefault:"10"`
	HandoverSeconds         int           `env:"HANDOVER_SECONDS" envDefault:"6"`
	BidWindowSeconds        int           `env:"BID_WINDOW_SECONDS" envDefault:"11"`
	RoundAuctionWindow      time.Duration `env:"ROUND_AUCTION_WINDOW" envDefault:"1h"`

	// RandSeed seeds tie-breaks; zero picks a seed from the clock.
	RandSeed uint64 `env:"RAND_SEED" envDefault:"0"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.RoundStartingPoints < 0 || c.DirectoryStartingPoints < 0:
		return fmt.Errorf("starting points must not be negative")
	case c.HandoverSeconds < 1 || c.BidWindowSeconds < 1:
		return fmt.Errorf("phase lengths must be at least 1s, got handover=%d bid_window=%d", c.HandoverSeconds, c.BidWindowSeconds)
	case c.HandoverSeconds > taskauction.MaxSeconds || c.BidWindowSeconds > taskauction.MaxSeconds:
		return fmt.Errorf("phase lengths must be at most %ds", taskauction.MaxSeconds)
	case c.RoundAuctionWindow < time.Second:
		return fmt.Errorf("round auction window must be at least 1s, got %s", c.RoundAuctionWindow)
	}
	return nil
}
