// parsepdf runs one registry extract through text extraction, parsing and
// payload validation, then prints the audit payload JSON. No database.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pgale/abn-tracker/constants"
	"github.com/pgale/abn-tracker/internal/common"
	"github.com/pgale/abn-tracker/internal/parse"
	"github.com/pgale/abn-tracker/internal/pdftext"
)

func main() {
	var (
		docTypeFlag = flag.String("type", "", "override document type: current or historical (default from filename)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: parsepdf [-type current|historical] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	// Logs to stderr so stdout stays pure payload JSON.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	docType := constants.DocumentTypeForFilename(path)
	switch strings.ToLower(*docTypeFlag) {
	case "":
	case "current":
		docType = constants.DocumentTypeCurrent
	case "historical":
		docType = constants.DocumentTypeHistorical
	default:
		fmt.Fprintf(os.Stderr, "unknown -type %q (want current or historical)\n", *docTypeFlag)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	extractor := pdftext.NewExtractor(pdftext.Config{Pdftotext: cfg.Batch.PdftotextBin}, logger)

	extracted, err := extractor.Extract(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	doc, err := parse.Parse(extracted.Text, docType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	payload, err := doc.Payload()
	if err != nil {
		fmt.Fprintf(os.Stderr, "payload: %v\n", err)
		os.Exit(1)
	}
	if err := parse.ValidatePayload(payload); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		fmt.Fprintf(os.Stderr, "format: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(buf.String())
}
