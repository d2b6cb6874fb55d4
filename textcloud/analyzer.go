package textcloud

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"yashubustudio/textcloud/morph"
)

// NewAnalyzer starts the configured morphological backend behind an analysis cache.
// Every failure wraps ErrAnalyzerInit.
func NewAnalyzer(ctx context.Context, cfg AnalyzerConfig, logger *log.Logger) (*morph.Cached, error) {
	var (
		backend morph.Backend
		err     error
	)
	switch cfg.Kind {
	case AnalyzerBuiltin, "":
		backend, err = newDictionaryBackend(cfg.Dictionary)
	case AnalyzerPymorphy:
		backend, err = morph.StartPymorphy(ctx, cfg.Python)
	default:
		err = fmt.Errorf("unknown analyzer %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalyzerInit, err)
	}
	cached, err := morph.NewCached(backend, cfg.CacheSize)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("%w: %w", ErrAnalyzerInit, err)
	}
	if logger != nil {
		logger.Debug("analyzer ready", "kind", cfg.Kind, "dictionary", cfg.Dictionary)
	}
	return cached, nil
}

func newDictionaryBackend(extra string) (*morph.Dictionary, error) {
	d, err := morph.Builtin()
	if err != nil {
		return nil, err
	}
	if extra != "" {
		if err := d.LoadFile(extra); err != nil {
			return nil, err
		}
	}
	return d, nil
}
