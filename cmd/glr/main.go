// glr runs the report pipeline once against files on disk:
//
//	glr -template Template.docx -out ./out evidence1.pdf evidence2.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glr-works/glreport/internal/common"
	"github.com/glr-works/glreport/internal/convert"
	"github.com/glr-works/glreport/internal/evidence"
	"github.com/glr-works/glreport/internal/export"
	"github.com/glr-works/glreport/internal/llm/groq"
	"github.com/glr-works/glreport/internal/pipeline"
	repo "github.com/glr-works/glreport/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	templatePath := flag.String("template", "", "path to the DOCX report template (required)")
	outDir := flag.String("out", "./out", "output directory")
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if *templatePath == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: glr -template <template.docx> [-out dir] <evidence.pdf> [...]")
		os.Exit(2)
	}

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	cfg.Output.DataDir = *outDir
	cfg.Store.Path = filepath.Join(*outDir, "glreport.db")
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	templateBytes, err := os.ReadFile(*templatePath)
	if err != nil {
		logger.Error("read template", "path", *templatePath, "error", err)
		os.Exit(1)
	}

	buffers := make([]evidence.Buffer, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read evidence", "path", path, "error", err)
			os.Exit(1)
		}
		buffers = append(buffers, evidence.Buffer{Name: filepath.Base(path), Data: data})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := repo.Open(ctx, cfg.Store.Path, logger)
	if err != nil {
		logger.Error("open run store", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, logger)

	client := groq.NewClient(groq.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout(),
	}, logger)

	processor := pipeline.NewProcessor(
		logger,
		evidence.NewExtractor(logger),
		client,
		convert.Detect(cfg.Output.Converter, logger),
		export.NewService(logger),
		repo.NewRunRepository(db, logger),
		cfg.Output.DataDir,
	)

	result, err := processor.Run(ctx, pipeline.RunRequest{
		TemplateName: filepath.Base(*templatePath),
		Template:     templateBytes,
		Evidence:     buffers,
	})
	if err != nil {
		logger.Error("pipeline.run.error", "error", err)
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	fmt.Println("report:", result.DocxPath)
	if result.PDFPath != "" {
		fmt.Println("pdf:", result.PDFPath)
	}
	if result.XLSXPath != "" {
		fmt.Println("fields:", result.XLSXPath)
	}
}
