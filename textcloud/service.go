package textcloud

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"yashubustudio/textcloud/cloud"
)

// CloudRenderer draws weighted words on a canvas.
type CloudRenderer interface {
	Render(ctx context.Context, words []cloud.Word, canvas cloud.Canvas) (image.Image, error)
}

// Service runs the text-to-word-cloud pipeline.
type Service struct {
	analyzer   MorphAnalyzer
	renderer   CloudRenderer
	normalizer *Normalizer

	cfgMu sync.RWMutex
	cfg   Config

	report io.Writer
	logger *log.Logger
}

// NewService constructs a service with the given analyzer, renderer and configuration.
func NewService(analyzer MorphAnalyzer, renderer CloudRenderer, cfg Config, logger *log.Logger) (*Service, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	cfg.ApplyDefaults()
	normalizer, err := NewNormalizer(cfg.Language)
	if err != nil {
		return nil, stageErr(StageConfig, "", err)
	}
	return &Service{
		analyzer:   analyzer,
		renderer:   renderer,
		normalizer: normalizer,
		cfg:        cfg,
		report:     io.Discard,
		logger:     logger,
	}, nil
}

// SetReportWriter directs the per-run word report. nil discards it.
func (s *Service) SetReportWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.cfgMu.Lock()
	s.report = w
	s.cfgMu.Unlock()
}

// Close releases analyzer and renderer resources.
func (s *Service) Close() error {
	var errs []error
	if c, ok := s.analyzer.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := s.renderer.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration. The language of an existing
// service is fixed at construction.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// Run executes load, normalize, tag, aggregate, render and write for one file.
// Nothing is written unless every stage succeeds.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	req.applyDefaults()
	s.cfgMu.RLock()
	cfg := s.cfg
	report := s.report
	s.cfgMu.RUnlock()

	if err := req.Validate(); err != nil {
		return nil, stageErr(StageConfig, req.FileName, err)
	}
	bg, err := cloud.ParseColor(req.Background)
	if err != nil {
		return nil, stageErr(StageConfig, req.FileName, err)
	}

	doc, err := Load(req.FileName)
	if err != nil {
		return nil, stageErr(StageLoad, req.FileName, err)
	}
	s.info("loaded file", "path", req.FileName, "bytes", len(doc))

	tokens := s.normalizer.Normalize(doc)
	s.info("normalized text", "tokens", len(tokens))

	tagged, err := TagAndFilter(ctx, s.analyzer, tokens, NewPOSSet(req.POS...))
	if err != nil {
		return nil, stageErr(StageTag, req.FileName, err)
	}
	s.info("filtered tokens", "kept", len(tagged), "pos", req.POS)

	if err := WriteReport(report, tokens, tagged); err != nil {
		s.warn("write report", "err", err)
	}

	table := Count(tagged)
	if table.Len() == 0 {
		return nil, stageErr(StageAggregate, req.FileName, ErrEmptyFrequency)
	}
	top := table.MostCommon(req.Limit)
	words := make([]cloud.Word, len(top))
	for i, f := range top {
		words[i] = cloud.Word{Text: f.Word, Weight: float64(f.Count)}
	}

	img, err := s.renderer.Render(ctx, words, cloud.Canvas{
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Background: bg,
	})
	if err != nil {
		return nil, stageErr(StageRender, req.FileName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, stageErr(StageWrite, req.Output, err)
	}
	if err := writePNG(req.Output, img); err != nil {
		return nil, stageErr(StageWrite, req.Output, err)
	}
	if err := WriteSaved(report, req.Output); err != nil {
		s.warn("write report", "err", err)
	}
	s.info("word cloud saved", "path", req.Output, "words", len(words), "elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Output:   req.Output,
		Tokens:   tokens,
		Filtered: tagged,
		Top:      top,
		Image:    img,
	}, nil
}

// writePNG encodes img next to path and renames it into place.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".wordcloud-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp image: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename image: %w", err)
	}
	return nil
}

func (s *Service) info(msg string, keyvals ...any) {
	if s.logger != nil {
		s.logger.Info(msg, keyvals...)
	}
}

func (s *Service) warn(msg string, keyvals ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, keyvals...)
	}
}
