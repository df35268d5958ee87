package scraper

import (
	"errors"
	"fmt"

	"hopdb/internal/aroma"
	"hopdb/internal/config"
	"hopdb/internal/mirror"
	"hopdb/pkg/logger"
)

// ErrUnknownSourceKind is returned for a source whose kind has no adapter.
var ErrUnknownSourceKind = errors.New("unknown source kind")

// BuildSources creates an adapter for every enabled source, in
// configuration order.
func BuildSources(cfg *config.Config, client *HTTPClient, norm *aroma.Normalizer, log *logger.Logger) ([]Source, error) {
	if log == nil {
		log = logger.NewNop()
	}

	var out []Source
	for _, sc := range cfg.Sources {
		if !sc.Enabled() {
			continue
		}
		src, err := NewSource(sc, cfg, client, norm, log)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// NewSource creates the adapter for one source.
func NewSource(sc config.SourceConfig, cfg *config.Config, client *HTTPClient, norm *aroma.Normalizer, log *logger.Logger) (Source, error) {
	if log == nil {
		log = logger.NewNop()
	}
	m := meta{
		id:   sc.ID,
		name: sourceName(sc, norm),
		norm: norm,
		log:  log.With("component", "source", "source", sc.ID),
	}
	targets := sc.Targets()
	first := ""
	if len(targets) > 0 {
		first = targets[0]
	}

	switch sc.Kind {
	case config.KindBarthHaas:
		return &BarthHaas{meta: m, URL: first, Client: client}, nil
	case config.KindCrosby:
		return &Crosby{meta: m, URL: first, Client: client, MaxWorkers: cfg.HTTP.MaxWorkers}, nil
	case config.KindHopsteiner:
		return &Hopsteiner{meta: m, File: sc.File, URL: first, Client: client}, nil
	case config.KindYakimaValley:
		return &YakimaValley{meta: m, URL: first, Vendor: sc.Vendor, Client: client}, nil
	case config.KindYakimaChief:
		return &YakimaChief{meta: m, URLs: targets, Client: client, MaxWorkers: cfg.HTTP.MaxWorkers}, nil
	case config.KindMirror:
		base := first
		if base == "" {
			base = cfg.Mirror.BaseURL
		}
		return &Mirror{meta: m, BaseURL: base, Slug: mirror.Slugify(m.name), Client: client}, nil
	case config.KindCSV:
		return &CSVFile{meta: m, File: sc.File}, nil
	}
	return nil, fmt.Errorf("%w: %q (source %s)", ErrUnknownSourceKind, sc.Kind, sc.ID)
}

// sourceName picks the supplier name stamped on records: the configured
// name, then the taxonomy's display name, then the id.
func sourceName(sc config.SourceConfig, norm *aroma.Normalizer) string {
	if sc.Name != "" {
		return sc.Name
	}
	if norm != nil {
		if n := norm.Taxonomy().DisplayName(sc.ID); n != "" {
			return n
		}
	}
	return sc.ID
}
