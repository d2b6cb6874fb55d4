package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"yashubustudio/textcloud/cloud"
	"yashubustudio/textcloud/textcloud"
)

const (
	fyneAppID  = "yashubustudio.textcloud"
	configFile = "config.json"
)

// Run loads settings, starts the pipeline and shows the desktop form.
func Run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := textcloud.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return err
	}
	if cfg.FileName == "" {
		cfg.FileName = "text.txt"
	}

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, cfg, configFile)

	svc, err := newService(context.Background(), cfg, u.logger)
	if err != nil {
		u.fail(err)
	} else {
		u.attach(svc)
		defer svc.Close()
		u.appendLog(fmt.Sprintf("анализатор: %s", cfg.Analyzer.Kind))
	}

	u.w.ShowAndRun()
	u.saveConfig()
	return nil
}

func newService(ctx context.Context, cfg textcloud.Config, logger *log.Logger) (*textcloud.Service, error) {
	analyzer, err := textcloud.NewAnalyzer(ctx, cfg.Analyzer, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := cloud.New(cloud.Options{
		FontPath: cfg.Render.FontPath,
		MaxWords: cfg.Render.MaxWords,
		Seed:     cfg.Render.Seed,
		Logger:   logger,
	})
	if err != nil {
		_ = analyzer.Close()
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	svc, err := textcloud.NewService(analyzer, renderer, cfg, logger)
	if err != nil {
		_ = analyzer.Close()
		_ = renderer.Close()
		return nil, err
	}
	return svc, nil
}
