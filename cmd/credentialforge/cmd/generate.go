package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yassine-ta/credentialforge/internal/batch"
	"github.com/yassine-ta/credentialforge/internal/config"
	"github.com/yassine-ta/credentialforge/internal/content"
	"github.com/yassine-ta/credentialforge/internal/credential"
	"github.com/yassine-ta/credentialforge/internal/synth"
)

func cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	outputDir := fs.String("output-dir", "./output", "Directory for generated files and the batch report")
	count := fs.Int("n", 0, "Number of files to generate (required)")
	formats := fs.String("formats", "eml", "Comma-separated output formats")
	credTypes := fs.String("credential-types", "", "Comma-separated credential types (required)")
	topics := fs.String("topics", "", "Comma-separated document topics (required)")
	strategy := fs.String("embed-strategy", "random", "Embedding strategy: random or a mode name")
	seedTime := fs.String("seed-time", "", "RFC 3339 timestamp pinning the batch epoch for reproducible runs")
	workers := fs.Int("workers", 0, "Force the worker count (0 = auto)")
	memoryLimit := fs.Int64("memory-limit", 0, "Memory ceiling in MiB for the worker budget (0 = detect)")
	sequential := fs.Bool("sequential", false, "Run jobs one at a time")
	jobTimeout := fs.Duration("job-timeout", 0, "Per-stage timeout within a job (0 = none)")
	patterns := fs.String("patterns", "", "Credential pattern database file (default: built-in)")
	fs.IntVar(count, "c", 0, "Count (shorthand)")
	fs.StringVar(outputDir, "o", "./output", "Output directory (shorthand)")
	fs.StringVar(topics, "t", "", "Topics (shorthand)")

	fs.Parse(args)

	if *count <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n is required and must be positive")
		fmt.Fprintln(os.Stderr, "Usage: credentialforge generate -n 50 --formats eml,csv --credential-types aws_access_key --topics \"security audit\"")
		return fmt.Errorf("-n is required")
	}
	if *credTypes == "" {
		fmt.Fprintln(os.Stderr, "Error: --credential-types is required (see 'credentialforge types')")
		return fmt.Errorf("--credential-types is required")
	}
	if *topics == "" {
		fmt.Fprintln(os.Stderr, "Error: --topics is required")
		return fmt.Errorf("--topics is required")
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}
	log := config.NewLogger(settings.LogLevel, os.Stderr)

	var epoch time.Time
	if *seedTime != "" {
		epoch, err = time.Parse(time.RFC3339, *seedTime)
		if err != nil {
			return fmt.Errorf("parsing --seed-time: %w", err)
		}
	}

	patternsPath := *patterns
	if patternsPath == "" {
		patternsPath = settings.PatternsPath
	}
	db := credential.DefaultDatabase()
	if patternsPath != "" {
		db, err = credential.LoadDatabase(patternsPath)
		if err != nil {
			return fmt.Errorf("loading pattern database: %w", err)
		}
	}
	creds := credential.NewGenerator(db)

	generators := []content.Generator{}
	llm := content.NewLLMClient(content.LLMConfig{
		BaseURL: settings.LLMBaseURL,
		APIKey:  settings.LLMAPIKey,
		Model:   settings.LLMModel,
		Timeout: settings.LLMTimeout,
	})
	if llm.IsConfigured() {
		generators = append(generators, llm)
	}
	generators = append(generators, content.NewTemplateGenerator())
	chain := content.NewChain(log, generators...)

	memLimit := uint64(*memoryLimit) << 20
	if memLimit == 0 {
		memLimit = batch.DetectMemory()
	}

	cfg := batch.Config{
		Count:             *count,
		OutputDir:         *outputDir,
		Formats:           splitList(*formats),
		CredentialTypes:   splitList(*credTypes),
		Topics:            splitList(*topics),
		EmbedStrategy:     *strategy,
		SeedTime:          epoch,
		Workers:           *workers,
		MemoryLimit:       memLimit,
		PerWorkerEstimate: settings.PerWorkerEstimate,
		HardCap:           settings.WorkerHardCap,
		Sequential:        *sequential,
		JobTimeout:        *jobTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, finishing in-flight jobs...")
		cancel()
	}()

	orch := batch.NewOrchestrator(cfg, creds, &contentAdapter{chain: chain}, synth.DefaultRegistry(), log)
	report, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	reportPath, err := batch.WriteReport(*outputDir, report)
	if err != nil {
		return err
	}

	fmt.Printf("\nBatch %s finished in %s\n", report.BatchID, report.Duration.Round(time.Millisecond))
	fmt.Printf("  Files:       %d\n", report.TotalFiles)
	fmt.Printf("  Failures:    %d\n", len(report.Failures))
	fmt.Printf("  Credentials: %d\n", report.TotalCredentials)
	fmt.Printf("  Workers:     %d\n", report.Workers)
	fmt.Printf("  Report:      %s\n", reportPath)
	if report.Cancelled {
		fmt.Println("  Batch was cancelled before completion.")
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d jobs failed", len(report.Failures), *count)
	}
	return nil
}

// contentAdapter bridges the generator chain to the orchestrator's
// collaborator signature.
type contentAdapter struct {
	chain *content.Chain
}

func (a *contentAdapter) Generate(ctx context.Context, topic, format string, seed uint64) (string, error) {
	return a.chain.Generate(ctx, content.Request{Topic: topic, Format: format, Seed: seed})
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
