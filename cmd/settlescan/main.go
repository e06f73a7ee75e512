package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fintessa/settlescan/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath  string
		configPath string
		outCSV     string
		outXLSX    string
		extension  string
		channels   string
		totalLabel string
		paidHeader string
		verbose    bool
	)

	flag.StringVar(&inputPath, "input", "", "Path to a settlement report (PDF or XLSX) or a directory of reports")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON configuration file")
	flag.StringVar(&outCSV, "out.csv", "", "Write merged entries to this CSV file")
	flag.StringVar(&outXLSX, "out.xlsx", "", "Write merged entries to this XLSX file")
	flag.StringVar(&extension, "ext", ".pdf", "File extension processed in directory mode")
	flag.StringVar(&channels, "channels", "", "Comma-separated channel tags (default AUK,MMT,DIG)")
	flag.StringVar(&totalLabel, "label.total", "", "Label phrase marking the network total line")
	flag.StringVar(&paidHeader, "label.paid", "", "Header phrase opening the paid-out section")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		InputPath:  inputPath,
		Extension:  extension,
		CSVPath:    outCSV,
		XLSXPath:   outXLSX,
		TotalLabel: totalLabel,
		PaidHeader: paidHeader,
		Verbose:    verbose,
	}
	if s := strings.TrimSpace(channels); s != "" {
		parts := strings.Split(s, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if tag := strings.TrimSpace(p); tag != "" {
				list = append(list, tag)
			}
		}
		cfg.Channels = list
	}

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", configPath).Msg("failed to load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := app.New(cfg).Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("extraction failed")
	}
}
