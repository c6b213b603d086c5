// Command sqlview renders a batch of SQL statement results into a
// self-contained HTML document.
//
// It stands in for the host viewport during development: feed it the
// JSON batch an execution layer produced and inspect the document it
// writes. With --watch it keeps running and re-renders whenever the
// settings file changes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ha1tch/sqlview/pkg/assets"
	"github.com/ha1tch/sqlview/pkg/config"
	"github.com/ha1tch/sqlview/pkg/format"
	"github.com/ha1tch/sqlview/pkg/log"
	"github.com/ha1tch/sqlview/pkg/render"
	"github.com/ha1tch/sqlview/pkg/result"
	"github.com/ha1tch/sqlview/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sqlview", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		// Input/output
		inputFile   = fs.String("i", "", "Batch JSON file (default: stdin)")
		inputFileL  = fs.String("input", "", "Batch JSON file (default: stdin)")
		outputFile  = fs.String("o", "", "Output document file (default: stdout)")
		outputFileL = fs.String("out", "", "Output document file (default: stdout)")

		// Settings
		configFile  = fs.String("c", "", "Settings file path")
		configFileL = fs.String("config", "", "Settings file path")
		watchFile   = fs.Bool("w", false, "Watch settings file and re-render on change")
		watchFileL  = fs.Bool("watch", false, "Watch settings file and re-render on change")

		// Assets
		assetsDir  = fs.String("assets-dir", ".", "Base directory for presentation assets")
		scriptPath = fs.String("script", render.DefaultScriptPath, "Script asset path relative to assets dir")

		// Render options
		stateJSON  = fs.String("state", "null", "Host state blob to embed (raw JSON)")
		checkAlign = fs.Bool("check", false, "Validate fields/rows alignment before rendering")

		// Logging
		logLevel  = fs.String("log-level", "info", "Log level (debug, info, warn, error)")
		logFormat = fs.String("log-format", "text", "Log format (text, json)")

		// Help and version
		showHelp     = fs.Bool("h", false, "Show help")
		showHelpL    = fs.Bool("help", false, "Show help")
		showVersion  = fs.Bool("v", false, "Show version")
		showVersionL = fs.Bool("version", false, "Show version")
	)

	fs.Usage = func() {
		printUsage(stderr)
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Coalesce short and long flags
	if *inputFileL != "" {
		*inputFile = *inputFileL
	}
	if *outputFileL != "" {
		*outputFile = *outputFileL
	}
	if *configFileL != "" {
		*configFile = *configFileL
	}
	if *watchFileL {
		*watchFile = true
	}
	if *showHelpL {
		*showHelp = true
	}
	if *showVersionL {
		*showVersion = true
	}

	if *showHelp {
		printUsage(stdout)
		return 0
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.Full())
		return 0
	}

	// Environment bootstrap: .env is optional
	_ = godotenv.Load()

	// Logger
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	logCfg := log.Config{DefaultLevel: level, Output: stderr}
	if *logFormat == "json" {
		logCfg.Format = log.FormatJSON
	}
	logger := log.New(logCfg)
	log.SetDefault(logger)

	// Settings provider
	settings, err := config.NewViperProvider(*configFile)
	if err != nil {
		logger.System().Error("failed to load settings", err, "path", *configFile)
		return 1
	}

	// Host state blob
	var state any
	if err := json.Unmarshal([]byte(*stateJSON), &state); err != nil {
		fmt.Fprintf(stderr, "error: --state is not valid JSON: %v\n", err)
		return 2
	}

	// Read the batch
	batch, err := readBatch(*inputFile, stdin)
	if err != nil {
		logger.System().Error("failed to read batch", err, "input", *inputFile)
		return 1
	}

	if *checkAlign {
		if err := batch.CheckAligned(); err != nil {
			logger.System().Error("batch failed alignment check", err)
			return 1
		}
	}

	// Build the pipeline
	resolver := assets.NewDirResolver(*assetsDir)
	renderer := render.NewRenderer(format.New())

	renderOnce := func(provider config.Provider) error {
		assembler := render.NewAssembler(provider, resolver)
		assembler.SetScriptPath(*scriptPath)

		start := time.Now()
		doc, err := render.Render(renderer, assembler, batch, state)
		if err != nil {
			return err
		}

		logger.Render().Debug("batch rendered",
			"statements", len(batch),
			"bytes", len(doc),
			"duration_ms", time.Since(start).Milliseconds(),
		)

		return writeDocument(*outputFile, stdout, doc)
	}

	if err := renderOnce(settings); err != nil {
		logger.Render().Error("render failed", err)
		return 1
	}

	if !*watchFile {
		return 0
	}

	// Watch mode: re-render whenever the settings file changes.
	if *configFile == "" || *outputFile == "" {
		fmt.Fprintln(stderr, "error: --watch requires --config and --out")
		return 2
	}

	watcher, err := config.NewWatcher(*configFile, logger, func(provider *config.ViperProvider) {
		if err := renderOnce(provider); err != nil {
			logger.Render().Error("re-render failed", err)
		}
	})
	if err != nil {
		logger.System().Error("failed to create settings watcher", err)
		return 1
	}

	if err := watcher.Start(); err != nil {
		logger.System().Error("failed to start settings watcher", err)
		return 1
	}

	fmt.Fprintf(stdout, "sqlview watching %s (version %s)\n", *configFile, version.Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.System().Info("shutdown signal received", "signal", sig.String())

	if err := watcher.Stop(); err != nil {
		fmt.Fprintf(stderr, "error stopping watcher: %v\n", err)
		return 1
	}

	return 0
}

// readBatch decodes the statement result batch from a file or stdin.
func readBatch(path string, stdin io.Reader) (result.Batch, error) {
	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, err
	}

	var batch result.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return batch, nil
}

// writeDocument writes the rendered document to a file or stdout.
func writeDocument(path string, stdout io.Writer, doc string) error {
	if path == "" {
		_, err := io.WriteString(stdout, doc)
		return err
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `sqlview - Render SQL statement results as an HTML document

Usage:
  sqlview [options] < batch.json

Input/Output:
  -i, --input <file>       Batch JSON file (default: stdin)
  -o, --out <file>         Output document file (default: stdout)

Settings:
  -c, --config <file>      Settings file path (yaml, json, toml)
  -w, --watch              Watch settings file and re-render on change
                           (requires --config and --out)

Assets:
  --assets-dir <path>      Base directory for presentation assets (default: .)
  --script <path>          Script asset path relative to assets dir
                           (default: scripts/results.js)

Render Options:
  --state <json>           Host state blob to embed (raw JSON, default: null)
  --check                  Validate fields/rows alignment before rendering

Logging:
  --log-level <level>      Log level: debug, info, warn, error (default: info)
  --log-format <format>    Log format: text, json (default: text)

General:
  -h, --help               Show help
  -v, --version            Show version
`)
}
