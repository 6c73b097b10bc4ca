package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// FileSource reads trading dates from a YAML document of the form
//
//	trade_dates:
//	  - 2026-01-05
//	  - 2026-01-06
type FileSource struct {
	Path string
}

type calendarFile struct {
	TradeDates []string `yaml:"trade_dates"`
}

// LoadTradeDates parses the file at s.Path.
func (s FileSource) LoadTradeDates(_ context.Context) ([]time.Time, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a trading calendar document.
func ParseYAML(data []byte) ([]time.Time, error) {
	var doc calendarFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode calendar file: %w", err)
	}

	dates := make([]time.Time, 0, len(doc.TradeDates))
	for _, raw := range doc.TradeDates {
		d, err := time.ParseInLocation(dateKey, raw, model.MarketLocation)
		if err != nil {
			return nil, fmt.Errorf("invalid trade date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
