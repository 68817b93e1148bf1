package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tripcheck/internal/evals"
	"tripcheck/internal/evidence"
	"tripcheck/internal/itinerary"
	"tripcheck/internal/reportstore"
	"tripcheck/internal/runner"
	"tripcheck/internal/scope"
)

const appName = "tripcheck"

const defaultDBPath = "reports/tripcheck.db"

func main() {
	// Optional; the .env carries the scope-inference API key.
	_ = godotenv.Load()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: itinerary evaluation\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  evaluate  Evaluate an itinerary version")
		fmt.Fprintln(os.Stderr, "  report    Inspect persisted evaluation reports")
		fmt.Fprintln(os.Stderr, "  help      Show this help")
	}

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	switch args[0] {
	case "evaluate":
		if err := runEvaluate(args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "report":
		if err := runReport(args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

func runEvaluate(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	itineraryPath := fs.String("itinerary", "", "Itinerary file (.yml or .md)")
	previousPath := fs.String("previous", "", "Pre-edit itinerary file (enables edit-scope evaluation)")
	instruction := fs.String("instruction", "", "Edit instruction given to the agent")
	evidencePath := fs.String("evidence", "", "Evidence set file (.yml or .json)")
	configPath := fs.String("config", "", "Evaluation thresholds file")
	dbPath := fs.String("db", defaultDBPath, "Report database path (empty disables persistence)")
	scopeMode := fs.String("scope", "auto", "Scope inference: heuristic, llm, or auto")
	timeout := fs.Duration("timeout", 30*time.Second, "Overall evaluation deadline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *itineraryPath == "" {
		return fmt.Errorf("-itinerary is required")
	}

	cfg := evals.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = evals.LoadConfig(*configPath); err != nil {
			return err
		}
	}

	it, err := itinerary.LoadFile(*itineraryPath)
	if err != nil {
		return err
	}

	req := runner.Request{Itinerary: it}

	if *previousPath != "" {
		prev, err := itinerary.LoadFile(*previousPath)
		if err != nil {
			return err
		}
		req.Previous = &prev
		req.Instruction = *instruction
	}

	if *evidencePath != "" {
		if req.Evidence, err = evidence.Load(*evidencePath); err != nil {
			return err
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer func() {
		_ = logger.Sync()
	}()

	var store runner.Store
	if *dbPath != "" {
		s, err := reportstore.Open(*dbPath)
		if err != nil {
			return err
		}
		defer func() {
			_ = s.Close()
		}()
		store = s
	}

	r := runner.New(runner.Options{
		Config:     cfg,
		Inferencer: buildInferencer(*scopeMode),
		Store:      store,
		Logger:     logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report := r.Evaluate(ctx, req)
	r.Flush()

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(out))

	if report.Overall == evals.StatusFail {
		os.Exit(1)
	}
	return nil
}

func buildInferencer(mode string) scope.Inferencer {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	switch mode {
	case "llm":
		return scope.NewLLM(apiKey)
	case "heuristic":
		return scope.Heuristic{}
	default:
		if apiKey != "" {
			return scope.NewLLM(apiKey)
		}
		return scope.Heuristic{}
	}
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "Report database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := reportstore.Open(*dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	rest := fs.Args()
	if len(rest) == 0 || rest[0] == "list" {
		return listReports(store)
	}
	if rest[0] == "show" {
		if len(rest) < 2 {
			return fmt.Errorf("usage: %s report show <version-id>", appName)
		}
		return showReport(store, rest[1])
	}
	return fmt.Errorf("unknown report subcommand: %s", rest[0])
}

func listReports(store *reportstore.Store) error {
	summaries, err := store.List()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no reports recorded")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %-12s  %-9s  %s\n", s.CreatedAt.Format(time.RFC3339), s.VersionID, s.Overall, s.ID)
	}
	return nil
}

func showReport(store *reportstore.Store, versionID string) error {
	report, err := store.Latest(versionID)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
