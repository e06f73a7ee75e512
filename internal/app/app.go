package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fintessa/settlescan/internal/extract"
	"github.com/fintessa/settlescan/internal/pdftext"
	"github.com/fintessa/settlescan/internal/report"
	"github.com/fintessa/settlescan/internal/xlsx"
)

// App wires the extractor to its input and the configured report sinks.
type App struct {
	cfg       Config
	extractor *extract.Extractor
}

func New(cfg Config) *App {
	if cfg.Extension == "" {
		cfg.Extension = ".pdf"
	}
	return &App{
		cfg: cfg,
		extractor: extract.New(extract.Options{
			Channels:   cfg.Channels,
			TotalLabel: cfg.TotalLabel,
			PaidHeader: cfg.PaidHeader,
		}),
	}
}

// Run extracts entries from the configured input and writes any configured
// reports. A directory input merges all matching files with per-file
// failures skipped; a single-file input returns its decode error to the
// caller.
func (a *App) Run(ctx context.Context) error {
	info, err := os.Stat(a.cfg.InputPath)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	var entries []extract.Entry
	if info.IsDir() {
		entries, err = a.runDirectory(ctx, a.cfg.InputPath)
	} else {
		entries, err = a.extractFile(a.cfg.InputPath)
	}
	if err != nil {
		return err
	}

	log.Info().Int("entries", len(entries)).Msg("extraction complete")

	if a.cfg.CSVPath != "" {
		if err := report.WriteCSV(a.cfg.CSVPath, entries); err != nil {
			return err
		}
		log.Info().Str("out", a.cfg.CSVPath).Msg("wrote csv report")
	}
	if a.cfg.XLSXPath != "" {
		if err := report.WriteXLSX(a.cfg.XLSXPath, entries); err != nil {
			return err
		}
		log.Info().Str("out", a.cfg.XLSXPath).Msg("wrote xlsx report")
	}
	return nil
}

// runDirectory extracts every file in dir carrying the configured
// extension, in directory enumeration order, and merges the results
// first-file-wins. Files that fail to decode are logged and skipped.
func (a *App) runDirectory(ctx context.Context, dir string) ([]extract.Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var docs [][]extract.Entry
	for _, de := range des {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), a.cfg.Extension) {
			continue
		}
		path := filepath.Join(dir, de.Name())
		doc, err := a.extractFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("extraction failed; continuing with remaining files")
			continue
		}
		docs = append(docs, doc)
	}
	return extract.Merge(docs...), nil
}

// extractFile dispatches on the file type: XLSX exports go through the
// workbook extractor, everything else is decoded as PDF.
func (a *App) extractFile(path string) ([]extract.Entry, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsx.ExtractFile(path)
	}
	log.Info().Str("file", path).Msg("processing report")
	pages, err := pdftext.ReadPages(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("pdf decode failed")
		return nil, err
	}
	return a.extractor.ExtractDocument(pages), nil
}
