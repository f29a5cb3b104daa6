// Interactive chat CLI for the borgo agent runtime.
//
// Plain input is answered by the model directly, with inline [[TOOL: args]]
// directives intercepted and executed. Slash commands drive individual
// subsystems:
//
//	/agent <task>      run the full reasoning loop with streaming steps
//	/run <code>        execute a code snippet in the sandbox
//	/search <query>    web search
//	/remember <fact>   store a fact in long-term memory
//	/knowledge <text>  add text to the knowledge base
//	/help              show commands
//	/exit              quit
//
// Configuration is environment-driven: BORGO_PROVIDER and BORGO_MODEL pick
// the backend (openai|gemini|anthropic|ollama|dummy), BORGO_POSTGRES_URL or
// BORGO_MONGO_URI select a persistent memory store, and the usual provider
// keys (OPENAI_API_KEY, GOOGLE_API_KEY, ANTHROPIC_API_KEY, OLLAMA_HOST)
// apply.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/memory/embed"
	"github.com/borgo-ai/borgo/src/memory/session"
	"github.com/borgo-ai/borgo/src/memory/store"
	"github.com/borgo-ai/borgo/src/models"
	"github.com/borgo-ai/borgo/src/rag"
	"github.com/borgo-ai/borgo/src/tools"
)

var (
	flagProvider = flag.String("provider", envOr("BORGO_PROVIDER", "ollama"), "LLM provider: openai|gemini|anthropic|ollama|dummy")
	flagModel    = flag.String("model", os.Getenv("BORGO_MODEL"), "Model ID for the selected provider")
	flagSession  = flag.String("session", "default", "Session ID for memory continuity")
	flagVerbose  = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	stdin := bufio.NewReader(os.Stdin)
	app, err := newApp(ctx, logger, stdin)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.close()

	app.repl(ctx, stdin)
}

type app struct {
	logger      *slog.Logger
	model       models.Agent
	catalog     *borgo.StaticToolCatalog
	agent       *borgo.Agent
	interceptor *borgo.Interceptor
	memory      *session.SessionMemory
	bank        *session.MemoryBank
	history     []models.Message
}

func newApp(ctx context.Context, logger *slog.Logger, stdin *bufio.Reader) (*app, error) {
	model, err := models.NewProvider(ctx, *flagProvider, *flagModel)
	if err != nil {
		return nil, fmt.Errorf("model provider: %w", err)
	}
	logger.Debug("model ready", "provider", *flagProvider, "model", *flagModel)

	bank, err := openMemoryBank(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	if err := bank.CreateSchema(ctx); err != nil {
		return nil, fmt.Errorf("memory schema: %w", err)
	}

	embedder := embed.AutoEmbedder()
	memory := session.NewSessionMemory(bank, 32).WithEmbedder(embedder)
	kb := rag.NewKnowledgeBase(store.NewInMemoryStore(), embedder)

	cfg := tools.Config{
		Model:     model,
		Memory:    memory,
		KB:        kb,
		Approver:  terminalApprover{in: stdin},
		SessionID: *flagSession,
	}
	if vision, ok := model.(models.VisionAgent); ok {
		cfg.Vision = vision
	}
	// Web search goes through the Ollama search API regardless of which
	// backend answers chat turns.
	if ollama, err := models.NewOllamaLLM(""); err == nil {
		cfg.Searcher = &tools.OllamaSearcher{LLM: ollama}
	}

	catalog := borgo.NewStaticToolCatalog(tools.All(cfg))

	agent, err := borgo.New(borgo.Options{Model: model, Catalog: catalog})
	if err != nil {
		return nil, err
	}

	return &app{
		logger:      logger,
		model:       model,
		catalog:     catalog,
		agent:       agent,
		interceptor: borgo.NewInterceptor(model, catalog),
		memory:      memory,
		bank:        bank,
	}, nil
}

// openMemoryBank picks the long-term store from the environment, falling back
// to the in-process store when no backend is configured.
func openMemoryBank(ctx context.Context, logger *slog.Logger) (*session.MemoryBank, error) {
	if conn := os.Getenv("BORGO_POSTGRES_URL"); conn != "" {
		logger.Debug("using postgres memory store")
		return session.NewMemoryBank(ctx, conn)
	}
	if uri := os.Getenv("BORGO_MONGO_URI"); uri != "" {
		logger.Debug("using mongodb memory store")
		s, err := store.NewMongoStore(ctx, uri, envOr("BORGO_MONGO_DB", "borgo"), envOr("BORGO_MONGO_COLLECTION", "memories"))
		if err != nil {
			return nil, err
		}
		return session.NewMemoryBankWithStore(s), nil
	}
	return session.NewMemoryBankWithStore(store.NewInMemoryStore()), nil
}

func (a *app) close() {
	if err := a.bank.Close(); err != nil {
		a.logger.Warn("closing memory store", "err", err)
	}
}

func (a *app) repl(ctx context.Context, stdin *bufio.Reader) {
	fmt.Printf("borgo (%s), /help for commands\n", *flagProvider)

	for {
		fmt.Print("> ")
		raw, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if !a.command(ctx, line) {
				return
			}
			continue
		}

		a.chat(ctx, line)
	}
}

// command dispatches a slash command. It returns false when the loop should
// exit.
func (a *app) command(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "/exit", "/quit":
		return false
	case "/help":
		fmt.Println(`commands:
  /agent <task>      run the reasoning loop
  /run <code>        execute code in the sandbox
  /search <query>    web search
  /remember <fact>   store a fact in long-term memory
  /knowledge <text>  add text to the knowledge base
  /exit              quit`)
	case "/agent":
		if rest == "" {
			fmt.Println("usage: /agent <task>")
			return true
		}
		a.runAgent(ctx, rest)
	case "/run":
		a.invoke(ctx, "run_code", map[string]any{"code": rest})
	case "/search":
		a.invoke(ctx, "search_web", map[string]any{"query": rest})
	case "/remember":
		a.invoke(ctx, "remember", map[string]any{"content": rest, "session_id": *flagSession})
	case "/knowledge":
		a.invoke(ctx, "add_knowledge", map[string]any{"content": rest})
	default:
		fmt.Printf("unknown command %s (try /help)\n", cmd)
	}
	return true
}

// invoke runs a single tool and prints its observation.
func (a *app) invoke(ctx context.Context, name string, args map[string]any) {
	call := a.catalog.Execute(ctx, name, args)
	if !call.Success {
		fmt.Println("error:", call.Error)
		return
	}
	fmt.Println(call.Result)
}

// runAgent streams the reasoning loop step by step.
func (a *app) runAgent(ctx context.Context, task string) {
	for ev := range a.agent.RunStream(ctx, task, a.history) {
		switch ev.Type {
		case borgo.EventIteration:
			fmt.Printf("--- step %d ---\n", ev.Iteration)
		case borgo.EventThought:
			fmt.Println("thought:", ev.Thought)
		case borgo.EventAction:
			fmt.Printf("action: %s %v\n", ev.Call.Tool, ev.Call.Args)
		case borgo.EventObservation:
			fmt.Println("observation:", ev.Observation)
		case borgo.EventAnswer:
			fmt.Println("\n" + ev.Answer)
			a.remember(task, ev.Answer)
		case borgo.EventMaxIterations:
			fmt.Println("\nstopped: iteration limit reached")
		case borgo.EventError:
			fmt.Println("error:", ev.Err)
		}
	}
}

// chat answers a plain turn through the model, with directive interception.
func (a *app) chat(ctx context.Context, line string) {
	messages := append(append([]models.Message(nil), a.history...),
		models.Message{Role: models.RoleUser, Content: line})

	response, err := a.model.Chat(ctx, messages)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	final, calls, err := a.interceptor.Process(ctx, messages, response)
	for _, call := range calls {
		a.logger.Debug("intercepted tool call", "tool", call.Tool, "success", call.Success)
	}
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(final)
	a.remember(line, final)
}

func (a *app) remember(user, assistant string) {
	a.history = append(a.history,
		models.Message{Role: models.RoleUser, Content: user},
		models.Message{Role: models.RoleAssistant, Content: assistant},
	)
}

// terminalApprover asks the user to confirm each shell command on stdin.
type terminalApprover struct {
	in *bufio.Reader
}

func (t terminalApprover) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
