package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/smtech/assistant/chat"
	"github.com/smtech/assistant/config"
	"github.com/smtech/assistant/embeddings"
	"github.com/smtech/assistant/index"
	"github.com/smtech/assistant/ingestion"
	"github.com/smtech/assistant/intent"
	"github.com/smtech/assistant/llm"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		ingestCmd(logger, os.Args[2:])
	case "ask":
		askCmd(logger, os.Args[2:])
	case "chat":
		chatCmd(logger, os.Args[2:])
	default:
		logger.Printf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadConfig(logger *log.Logger, path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, verr := range errs {
			logger.Printf("invalid config: %v", verr)
		}
		logger.Fatalf("configuration is invalid, refusing to start")
	}
	return cfg
}

func ingestCmd(logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := flags.String("config", "", "path to config file")
	dataDir := flags.String("dir", "", "path to directory containing PDF documents")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse ingest flags: %v", err)
	}

	cfg := loadConfig(logger, *configPath)
	dir := *dataDir
	if dir == "" {
		dir = cfg.Ingestion.DataDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	svc := ingestion.NewService(embedder, logger, ingestion.Config{
		IndexPath:         cfg.Index.Path,
		ChunkSize:         cfg.Ingestion.ChunkSize,
		ChunkOverlap:      cfg.Ingestion.ChunkOverlap,
		EmbeddingModel:    cfg.Embeddings.Model,
		Dimension:         cfg.Embeddings.Dimension,
		RequestsPerSecond: cfg.Ingestion.RequestsPerSecond,
		ShowProgress:      true,
	})

	logger.Printf("ingesting documents from %s using %s/%s embeddings", dir, cfg.Embeddings.Provider, cfg.Embeddings.Model)

	if err := svc.Ingest(ctx, dir); err != nil {
		if errors.Is(err, index.ErrEmptyIndex) {
			logger.Fatalf("ingestion produced no indexable content: %v", err)
		}
		logger.Fatalf("ingestion failed: %v", err)
	}
}

func askCmd(logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := flags.String("config", "", "path to config file")
	question := flags.String("question", "", "question to ask the assistant")
	k := flags.Int("k", 0, "number of context chunks to retrieve")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse ask flags: %v", err)
	}

	cfg := loadConfig(logger, *configPath)
	if *k > 0 {
		cfg.Index.RetrievalK = *k
	}

	if strings.TrimSpace(*question) == "" {
		fmt.Print("Enter your question: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			*question = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Fatalf("read question: %v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := newAnswerer(logger, cfg)

	resp, err := svc.Answer(ctx, *question)
	if err != nil {
		logger.Fatalf("answer failed: %v", err)
	}

	printResponse(resp)
}

func chatCmd(logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := flags.String("config", "", "path to config file")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse chat flags: %v", err)
	}

	cfg := loadConfig(logger, *configPath)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := newAnswerer(logger, cfg)

	color.Cyan("SM Technology assistant. Type your question, or \"exit\" to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		resp, err := svc.Answer(ctx, line)
		if err != nil {
			logger.Printf("answer failed: %v", err)
			continue
		}
		printResponse(resp)

		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Fatalf("read input: %v", err)
	}
}

// newAnswerer wires the query path: embedder, loaded index, LLM client,
// and canned responder. Any setup failure is fatal before a single query
// is served.
func newAnswerer(logger *log.Logger, cfg *config.Config) *chat.Service {
	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		logger.Fatalf("llm setup: %v", err)
	}

	idx, err := index.Load(cfg.Index.Path, cfg.Embeddings.Model, cfg.Embeddings.Dimension)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			logger.Fatalf("no index at %s, run `assistant ingest` first", cfg.Index.Path)
		}
		logger.Fatalf("load index: %v", err)
	}
	logger.Printf("loaded index: %d chunks, model %s", idx.Len(), idx.Meta().EmbeddingModel)

	return chat.NewService(idx, embedder, llmClient, intent.NewResponder(nil), logger, chat.Config{
		RetrievalK:     cfg.Index.RetrievalK,
		MaxQueryLength: cfg.Chat.MaxQueryLength,
	})
}

func printResponse(resp chat.Response) {
	color.Green(resp.Text)
	if len(resp.Citations) > 0 {
		fmt.Println()
		color.Cyan("Sources:")
		for idx, citation := range resp.Citations {
			fmt.Printf("%d. %s (%s)\n", idx+1, citation.Title, citation.Source)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: assistant <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  ingest   Build the vector index from a directory of PDF documents (use --dir to override)")
	fmt.Println("  ask      Answer a single question against the indexed documents")
	fmt.Println("  chat     Interactive question loop")
}
