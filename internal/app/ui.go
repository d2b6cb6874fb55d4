package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"yashubustudio/textcloud/cloud"
	"yashubustudio/textcloud/textcloud"
)

const (
	logDebounceInterval = 150 * time.Millisecond
	logLimit            = 300
)

type uiState struct {
	service *textcloud.Service
	cfgPath string
	cfgMu   sync.Mutex
	cfg     textcloud.Config
	logger  *log.Logger

	w          fyne.Window
	pathEntry  *widget.Entry
	limitEntry *widget.Entry
	bgLabel    *widget.Label
	swatch     *canvas.Rectangle
	preview    *canvas.Image
	logView    *widget.Entry

	runBtn    *widget.Button
	browseBtn *widget.Button
	colorBtn  *widget.Button

	statusBind  binding.String
	logBind     binding.String
	logs        logBuffer
	logUpdateCh chan struct{}
}

func buildUI(a fyne.App, cfg textcloud.Config, cfgPath string) *uiState {
	u := &uiState{cfg: cfg, cfgPath: cfgPath, logs: logBuffer{limit: logLimit}}
	u.w = a.NewWindow("Анализатор текста")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("готово")
	u.logBind = binding.NewString()
	u.startLogUpdater()

	capture := newLogCapture(u.appendLog)
	u.logger = log.NewWithOptions(io.MultiWriter(os.Stderr, capture), log.Options{
		Level:  log.InfoLevel,
		Prefix: "textcloud",
	})

	u.pathEntry = widget.NewEntry()
	u.pathEntry.SetPlaceHolder("путь к текстовому файлу")
	u.pathEntry.SetText(cfg.FileName)
	u.browseBtn = widget.NewButtonWithIcon("обзор", theme.FolderOpenIcon(), func() { u.onBrowse() })

	u.limitEntry = widget.NewEntry()
	u.limitEntry.SetPlaceHolder("сколько слов показать (пусто = все)")
	u.limitEntry.SetText(limitText(cfg.Limit))

	u.swatch = canvas.NewRectangle(color.Black)
	u.swatch.SetMinSize(fyne.NewSize(28, 28))
	u.bgLabel = widget.NewLabel(backgroundLabel(cfg.Background))
	if c, err := cloud.ParseColor(cfg.Background); err == nil {
		u.swatch.FillColor = c
	}
	u.colorBtn = widget.NewButtonWithIcon("выбрать цвет", theme.ColorPaletteIcon(), func() { u.onPickColor() })
	u.runBtn = widget.NewButtonWithIcon("сделать вордклауд", theme.MediaPlayIcon(), func() { u.onRun() })
	u.runBtn.Importance = widget.HighImportance

	u.preview = canvas.NewImageFromImage(nil)
	u.preview.FillMode = canvas.ImageFillContain
	u.preview.SetMinSize(fyne.NewSize(float32(cfg.Render.Width)/2, float32(cfg.Render.Height)/2))

	u.logView = widget.NewEntryWithData(u.logBind)
	u.logView.MultiLine = true
	u.logView.Wrapping = fyne.TextWrapWord
	u.logView.SetPlaceHolder("журнал")
	u.logView.Disable()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Анализатор текста", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, u.browseBtn, u.pathEntry),
		u.limitEntry,
		container.NewHBox(u.colorBtn, u.swatch, u.bgLabel),
		u.runBtn,
		widget.NewLabelWithData(u.statusBind),
	)
	logPane := container.NewBorder(
		widget.NewLabelWithStyle("журнал", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		u.logView,
	)
	split := container.NewVSplit(container.NewBorder(form, nil, nil, nil, u.preview), logPane)
	split.Offset = 0.7

	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(900, 760))
	return u
}

// attach enables the form once the pipeline is ready.
func (u *uiState) attach(svc *textcloud.Service) {
	u.service = svc
	svc.SetReportWriter(newLogCapture(u.appendLog))
}

// fail shows a startup error and keeps the run button disabled.
func (u *uiState) fail(err error) {
	u.runBtn.Disable()
	u.setStatus("ошибка инициализации")
	u.appendLog(fmt.Sprintf("ошибка: %v", err))
	dialog.ShowError(err, u.w)
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		if b {
			u.runBtn.Disable()
			u.browseBtn.Disable()
			u.colorBtn.Disable()
		} else {
			u.runBtn.Enable()
			u.browseBtn.Enable()
			u.colorBtn.Enable()
		}
	})
}

func (u *uiState) appendLog(msg string) {
	now := time.Now().Format("15:04:05")
	u.logs.add(fmt.Sprintf("[%s] %s", now, msg))

	if u.logUpdateCh == nil {
		u.flushLog()
		return
	}
	select {
	case u.logUpdateCh <- struct{}{}:
	default:
	}
}

func (u *uiState) startLogUpdater() {
	if u.logUpdateCh != nil {
		return
	}
	u.logUpdateCh = make(chan struct{}, 1)
	go u.logUpdateLoop()
}

func (u *uiState) logUpdateLoop() {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-u.logUpdateCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			u.flushLog()
		}
	}
}

func (u *uiState) flushLog() {
	_ = u.logBind.Set(u.logs.String())
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) saveConfig() {
	u.cfgMu.Lock()
	defer u.cfgMu.Unlock()
	if err := textcloud.SaveConfig(u.cfgPath, u.cfg); err != nil {
		u.logger.Warn("save config", "err", err)
	}
}

func (u *uiState) onBrowse() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		path := rc.URI().Path()
		u.pathEntry.SetText(path)
		u.appendLog("файл: " + filepath.Base(path))
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt", ".md"}))
	fd.Show()
}

func (u *uiState) onPickColor() {
	picker := dialog.NewColorPicker("Выберите цвет", "цвет фона облака слов", func(c color.Color) {
		hex := cloud.HexColor(c)
		u.cfgMu.Lock()
		u.cfg.Background = hex
		u.cfgMu.Unlock()
		u.swatch.FillColor = c
		u.swatch.Refresh()
		u.bgLabel.SetText(backgroundLabel(hex))
		u.appendLog("выбранный цвет: " + hex)
	}, u.w)
	picker.Advanced = true
	picker.Show()
}

func (u *uiState) onRun() {
	if u.service == nil {
		return
	}
	u.cfgMu.Lock()
	cfg, req, err := applyForm(u.cfg, formValues{
		path:       u.pathEntry.Text,
		limit:      u.limitEntry.Text,
		background: u.cfg.Background,
	})
	if err == nil {
		u.cfg = cfg
	}
	u.cfgMu.Unlock()
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	u.saveConfig()

	u.setBusy(true)
	u.setStatus("обработка...")
	start := time.Now()

	go func(req textcloud.Request) {
		defer u.setBusy(false)
		res, err := u.service.Run(context.Background(), req)
		if err != nil {
			u.setStatus("ошибка")
			u.appendLog(fmt.Sprintf("ошибка: %v", err))
			fyne.Do(func() {
				dialog.ShowError(err, u.w)
			})
			return
		}
		elapsed := time.Since(start).Seconds()
		fyne.Do(func() {
			u.preview.Image = res.Image
			u.preview.Refresh()
		})
		u.setStatus(fmt.Sprintf("готово: %d слов, %s (%.1fs)", len(res.Top), res.Output, elapsed))
	}(req)
}
