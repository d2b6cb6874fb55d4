package app

import (
	"errors"
	"fmt"
	"strings"

	"yashubustudio/textcloud/textcloud"
)

// formValues is what the user typed into the window.
type formValues struct {
	path       string
	limit      string
	background string
}

// applyForm copies the form into cfg and builds the run request.
func applyForm(cfg textcloud.Config, form formValues) (textcloud.Config, textcloud.Request, error) {
	path := strings.TrimSpace(form.path)
	if path == "" {
		return cfg, textcloud.Request{}, errors.New("не указан файл для анализа")
	}
	limit, err := textcloud.ParseLimit(form.limit)
	if err != nil {
		return cfg, textcloud.Request{}, err
	}
	cfg.FileName = path
	cfg.Limit = limit
	cfg.Background = strings.TrimSpace(form.background)
	if err := cfg.Validate(); err != nil {
		return cfg, textcloud.Request{}, err
	}
	req, err := cfg.Request()
	if err != nil {
		return cfg, textcloud.Request{}, err
	}
	return cfg, req, nil
}

func limitText(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprint(limit)
}

func backgroundLabel(bg string) string {
	if bg == "" {
		return "цвет фона: чёрный"
	}
	return "цвет фона: " + bg
}
