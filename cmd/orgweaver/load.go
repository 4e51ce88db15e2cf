package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kingrea/orgweaver/internal/advisor"
	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/exchange"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/snapshot"
	"github.com/kingrea/orgweaver/internal/store"
)

// sampleRef names the built-in demo organisation wherever a record source is
// accepted.
const sampleRef = "sample"

// newAdvisor builds the advisor for cfg. Tests swap it out.
var newAdvisor = func(cfg *config.Config) advisor.Advisor {
	return advisor.New(cfg.Provider(), advisor.Options{
		APIKey:  cfg.APIKey(),
		Model:   cfg.Model(),
		BaseURL: cfg.BaseURL(),
	})
}

// loadRecords resolves a record source. Empty means the configured data
// source, or the demo organisation when none is configured. Otherwise ref is
// "sample", a csv/json/xlsx file, or a saved version id ("latest" and unique
// prefixes work). Loaded records go through the store, so a repeated id keeps
// only its last record.
func loadRecords(cfg *config.Config, ref string) ([]position.Position, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = cfg.DataSource()
	}
	if ref == "" || ref == sampleRef {
		return position.Sample(), sampleRef, nil
	}
	if _, err := os.Stat(ref); err == nil {
		records, err := exchange.ReadFile(ref)
		if err != nil {
			if errors.Is(err, exchange.ErrUnsupportedFormat) {
				return nil, "", withCode(exitUsage, err)
			}
			return nil, "", withCode(exitValidation, err)
		}
		return store.New(records).All(), ref, nil
	}
	records, meta, err := snapshot.NewStore(cfg.VersionsDir()).Load(ref)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, "", withCode(exitUsage, fmt.Errorf("%q is neither a file nor a saved version", ref))
		}
		return nil, "", withCode(exitValidation, err)
	}
	return store.New(records).All(), "version " + meta.ID, nil
}
