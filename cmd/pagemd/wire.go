package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/clip"
	"github.com/fwojciec/pagemd/fs"
	"github.com/fwojciec/pagemd/gemini"
	"github.com/fwojciec/pagemd/goquery"
	"github.com/fwojciec/pagemd/htmltomarkdown"
	pagehttp "github.com/fwojciec/pagemd/http"
	"github.com/fwojciec/pagemd/markdown"
	"github.com/fwojciec/pagemd/readability"
	"github.com/fwojciec/pagemd/rod"
	pageslog "github.com/fwojciec/pagemd/slog"
	"github.com/fwojciec/pagemd/trafilatura"
	"google.golang.org/genai"
)

// tokenizerModel is used for token counting; the local tokenizer lags
// behind the hosted models.
const tokenizerModel = "gemini-2.0-flash"

// NewExtractor returns the extractor engine called name.
func NewExtractor(name string) (pagemd.Extractor, error) {
	switch name {
	case pagemd.ExtractorSelector:
		return goquery.NewSelector(), nil
	case pagemd.ExtractorTrafilatura:
		return trafilatura.NewExtractor(), nil
	case pagemd.ExtractorReadability:
		return readability.NewExtractor(), nil
	}
	return nil, pagemd.Errorf(pagemd.EINVALID, "unknown extractor %q", name)
}

// NewConverter returns the converter engine called name.
func NewConverter(name string) (pagemd.Converter, error) {
	switch name {
	case pagemd.ConverterNative:
		return markdown.NewConverter(), nil
	case pagemd.ConverterLibrary:
		return htmltomarkdown.NewConverter(), nil
	}
	return nil, pagemd.Errorf(pagemd.EINVALID, "unknown converter %q", name)
}

func newFetcher(render bool, timeout time.Duration) (pagemd.Fetcher, error) {
	if !render {
		return pagehttp.NewFetcher(pagehttp.WithTimeout(timeout)), nil
	}
	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
	}
	return fetcher, nil
}

// newClipper builds a clipper without a fetcher from the engine flags.
func newClipper(ctx context.Context, flags EngineFlags, logger *slog.Logger, stderr io.Writer) (*clip.Clipper, error) {
	extractor, err := NewExtractor(flags.Extractor)
	if err != nil {
		return nil, err
	}
	converter, err := NewConverter(flags.Converter)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		extractor = pageslog.NewLoggingExtractor(extractor, logger)
		converter = pageslog.NewLoggingConverter(converter, logger)
	}

	c := &clip.Clipper{
		Extractor: extractor,
		Converter: converter,
		Log: func(format string, args ...any) {
			fmt.Fprintf(stderr, "  "+format+"\n", args...)
		},
	}

	if flags.Describe {
		describer, err := newDescriber(ctx)
		if err != nil {
			return nil, err
		}
		c.Describer = describer
	}
	return c, nil
}

func newDescriber(ctx context.Context) (pagemd.Describer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, pagemd.Errorf(pagemd.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	tokens, err := gemini.NewTokenCounter(tokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}

	return gemini.NewDescriber(client, gemini.WithTokenBudget(tokens, gemini.DefaultMaxInputTokens)), nil
}

func newWriter(dir string, mirror bool, logger *slog.Logger) pagemd.ClipWriter {
	layout := fs.LayoutFlat
	if mirror {
		layout = fs.LayoutMirror
	}
	var w pagemd.ClipWriter = fs.NewWriter(dir, fs.WithLayout(layout))
	if logger != nil {
		w = pageslog.NewLoggingWriter(w, logger)
	}
	return w
}

// newLimiter builds the per-site limiter from --rate and --domain-rate.
func newLimiter(rps float64, perSite map[string]float64) *clip.DomainLimiter {
	opts := make([]clip.LimiterOption, 0, len(perSite))
	for host, r := range perSite {
		opts = append(opts, clip.WithDomainRate(host, r))
	}
	return clip.NewDomainLimiter(rps, opts...)
}
