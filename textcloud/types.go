package textcloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-playground/validator/v10"

	"yashubustudio/textcloud/cloud"
	"yashubustudio/textcloud/morph"
)

const (
	DefaultOutput   = "wordcloud.png"
	DefaultLanguage = "ru"
)

// DefaultPOS is the part-of-speech allow-set used when none is configured.
var DefaultPOS = []morph.POS{morph.Verb, morph.Noun}

// AnalyzerKind selects the morphological backend.
type AnalyzerKind string

const (
	// AnalyzerBuiltin uses the embedded lexicon with suffix prediction.
	AnalyzerBuiltin AnalyzerKind = "builtin"
	// AnalyzerPymorphy runs pymorphy3 in a python subprocess.
	AnalyzerPymorphy AnalyzerKind = "pymorphy"
)

// AnalyzerConfig configures the morphological analyzer.
type AnalyzerConfig struct {
	Kind       AnalyzerKind `json:"kind" yaml:"kind" validate:"oneof=builtin pymorphy"`
	Dictionary string       `json:"dictionary,omitempty" yaml:"dictionary,omitempty"`
	Python     string       `json:"python,omitempty" yaml:"python,omitempty"`
	CacheSize  int          `json:"cacheSize" yaml:"cacheSize" validate:"gte=0"`
}

// RenderConfig configures the word-cloud image.
type RenderConfig struct {
	Width    int    `json:"width" yaml:"width" validate:"gt=0,lte=10000"`
	Height   int    `json:"height" yaml:"height" validate:"gt=0,lte=10000"`
	FontPath string `json:"fontPath,omitempty" yaml:"fontPath,omitempty"`
	MaxWords int    `json:"maxWords" yaml:"maxWords" validate:"gte=0"`
	Seed     uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Config aggregates runtime settings persisted to config.json (or config.yaml).
type Config struct {
	FileName   string         `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	POS        []string       `json:"pos" yaml:"pos" validate:"dive,required"`
	Limit      int            `json:"limit" yaml:"limit"`
	Background string         `json:"background,omitempty" yaml:"background,omitempty"`
	Output     string         `json:"output" yaml:"output" validate:"required"`
	Language   string         `json:"language" yaml:"language" validate:"required"`
	Analyzer   AnalyzerConfig `json:"analyzer" yaml:"analyzer"`
	Render     RenderConfig   `json:"render" yaml:"render"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if len(c.POS) == 0 {
		for _, p := range DefaultPOS {
			c.POS = append(c.POS, string(p))
		}
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Analyzer.Kind == "" {
		c.Analyzer.Kind = AnalyzerBuiltin
	}
	if c.Analyzer.CacheSize == 0 {
		c.Analyzer.CacheSize = morph.DefaultCacheSize
	}
	if c.Render.Width == 0 {
		c.Render.Width = cloud.DefaultWidth
	}
	if c.Render.Height == 0 {
		c.Render.Height = cloud.DefaultHeight
	}
	if c.Render.MaxWords == 0 {
		c.Render.MaxWords = cloud.DefaultMaxWords
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints, part-of-speech names, the limit and the background colour.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, c.Limit)
	}
	if err := validate.Struct(c); err != nil {
		return describeValidation(err)
	}
	if _, err := morph.ParsePOSList(c.POS); err != nil {
		return err
	}
	if _, err := cloud.ParseColor(c.Background); err != nil {
		return err
	}
	return nil
}

// Request snapshots the inputs of a single run.
type Request struct {
	FileName   string      `validate:"required"`
	POS        []morph.POS `validate:"dive,required"`
	Limit      int
	Background string
	Output     string `validate:"required"`
}

// Request builds a run request from the configuration.
func (c Config) Request() (Request, error) {
	pos, err := morph.ParsePOSList(c.POS)
	if err != nil {
		return Request{}, err
	}
	return Request{
		FileName:   c.FileName,
		POS:        pos,
		Limit:      c.Limit,
		Background: c.Background,
		Output:     c.Output,
	}, nil
}

func (r *Request) applyDefaults() {
	if len(r.POS) == 0 {
		r.POS = append([]morph.POS(nil), DefaultPOS...)
	}
	if r.Output == "" {
		r.Output = DefaultOutput
	}
}

// Validate reports the first problem with the request.
func (r Request) Validate() error {
	if r.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, r.Limit)
	}
	if err := validate.Struct(r); err != nil {
		return describeValidation(err)
	}
	for _, p := range r.POS {
		if _, err := morph.ParsePOS(string(p)); err != nil {
			return err
		}
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// TaggedToken is a retained word in normal form with its part of speech.
type TaggedToken struct {
	NormalForm string    `json:"normalForm"`
	POS        morph.POS `json:"pos"`
}

// Frequency is one row of a frequency table.
type Frequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Result holds everything a run produced.
type Result struct {
	Output   string        `json:"output"`
	Tokens   []string      `json:"tokens"`
	Filtered []TaggedToken `json:"filtered"`
	Top      []Frequency   `json:"top"`
	Image    image.Image   `json:"-"`
}
