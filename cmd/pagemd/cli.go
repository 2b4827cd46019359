package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/clip"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Preferences pagemd.PreferenceService
	Sitemaps    pagemd.SitemapService
	Clipper     *clip.Clipper
	Writer      pagemd.ClipWriter
}

// CLI defines the command-line interface structure for Kong.
// Flag defaults come from the saved preferences.
type CLI struct {
	Verbose bool `short:"v" help:"Log each pipeline stage to stderr"`

	Clip    ClipCmd    `cmd:"" help:"Clip web pages into Markdown files"`
	Convert ConvertCmd `cmd:"" help:"Convert a saved HTML page to Markdown"`
	Config  ConfigCmd  `cmd:"" help:"Show or change saved preferences"`
}

// EngineFlags select the extraction and conversion engines.
type EngineFlags struct {
	Extractor string `short:"x" enum:"selector,trafilatura,readability" default:"${extractor}" help:"Content extractor (${enum})"`
	Converter string `short:"m" enum:"native,library" default:"${converter}" help:"HTML to Markdown converter (${enum})"`
	Describe  bool   `help:"Write a description with Gemini when the page has none (needs GEMINI_API_KEY)"`
}

// ClipCmd is the "clip" subcommand.
type ClipCmd struct {
	EngineFlags `embed:""`

	URLs        []string           `arg:"" name:"url" help:"Page URLs to clip"`
	Out         string             `short:"o" default:"${output_dir}" help:"Output directory"`
	Mirror      bool               `help:"Mirror URL paths below the output directory instead of date-slug names"`
	Render      bool               `short:"r" negatable:"" default:"${render}" help:"Fetch with headless Chrome for JavaScript-rendered pages"`
	Sitemap     bool               `short:"s" help:"Clip every page listed in each site's sitemap"`
	Filter      []string           `short:"F" help:"Only clip sitemap URLs matching this regex (repeatable)"`
	Exclude     []string           `short:"E" help:"Skip sitemap URLs matching this regex (repeatable)"`
	Concurrency int                `short:"c" default:"4" help:"Concurrent fetch limit"`
	Rate        float64            `default:"2" help:"Requests per second to each site (0 disables throttling)"`
	DomainRate  map[string]float64 `name:"domain-rate" placeholder:"HOST=RPS" help:"Request rate for one site, overriding --rate (repeatable)"`
	Timeout     time.Duration      `short:"t" default:"${timeout}" help:"Per-page fetch timeout"`
	Stdout      bool               `help:"Print Markdown to stdout instead of writing files"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	EngineFlags `embed:""`

	File string `arg:"" help:"HTML file to convert, or - for stdin"`
	URL  string `required:"" help:"Address the page was saved from"`
	Out  string `short:"o" default:"${output_dir}" help:"Output directory"`
	Save bool   `help:"Write the result to the output directory instead of stdout"`
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Show saved preferences"`
	Set  ConfigSetCmd  `cmd:"" help:"Save a preference"`
}

// ConfigShowCmd is the "config show" subcommand.
type ConfigShowCmd struct{}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Preference key (output_dir, extractor, converter, render, timeout)"`
	Value string `arg:"" help:"New value"`
}
