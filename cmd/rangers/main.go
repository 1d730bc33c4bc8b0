package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/socialfactory/rangers/pkg/agent"
	"github.com/socialfactory/rangers/pkg/bus"
	"github.com/socialfactory/rangers/pkg/config"
	"github.com/socialfactory/rangers/pkg/guard"
	"github.com/socialfactory/rangers/pkg/logger"
	"github.com/socialfactory/rangers/pkg/memory"
	"github.com/socialfactory/rangers/pkg/personas"
	"github.com/socialfactory/rangers/pkg/providers"
	"github.com/socialfactory/rangers/pkg/router"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const appName = "rangers"

// formatVersion returns the version string with optional git commit
func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func formatBuildInfo() (build string, goVer string) {
	if buildTime != "" {
		build = buildTime
	}
	goVer = goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return
}

func printVersion() {
	fmt.Printf("%s %s\n", appName, formatVersion())
	build, goVer := formatBuildInfo()
	if build != "" {
		fmt.Printf("  Build: %s\n", build)
	}
	if goVer != "" {
		fmt.Printf("  Go: %s\n", goVer)
	}
}

func main() {
	if err := executeCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".rangers", "config.json")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}

func onboard() {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists at %s\n", configPath)
		fmt.Print("Overwrite? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		response, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Printf("Error reading input: %v\n", readErr)
			fmt.Println("Aborted.")
			return
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(configPath, cfg); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s is ready!\n", appName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add your Anthropic API key to", configPath)
	fmt.Println("     Get one at: https://console.anthropic.com/")
	fmt.Println("  2. Onboard your brand: rangers brand add")
	fmt.Println("  3. Chat with the team: rangers chat")
	fmt.Println("  4. Check readiness: rangers status")
}

// runtimeDeps holds everything a chat/ask session needs, plus its cleanup.
type runtimeDeps struct {
	cfg    *config.Config
	engine *agent.Engine
	store  memory.Store
	writes *bus.WriteBus
	cancel context.CancelFunc
}

func (d *runtimeDeps) close() {
	if d.writes != nil {
		d.writes.Close()
	}
	if d.cancel != nil {
		d.cancel()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
}

func buildRuntime(userID, brandID string) (*runtimeDeps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	auth := providers.NewAnthropicKeyAuth(
		providers.NewStaticTokenSource(cfg.GetAPIKey(), "config"),
		cfg.Providers.Anthropic.APIVersion,
	)
	provider, err := providers.NewAnthropicProvider(cfg.GetAPIBase(), cfg.Agents.Defaults.Model, cfg.Providers.Anthropic.Proxy, auth)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	store, err := memory.NewSQLiteStore(cfg.MemoryPath(), cfg.Memory.MaxBrandsPerUser)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	writes := bus.NewWriteBus(cfg.Memory.QueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	go bus.RunWriter(ctx, writes, store)

	if cfg.Memory.MessageRetention > 0 || cfg.Memory.ArtifactRetention > 0 {
		msgTTL := time.Duration(cfg.Memory.MessageRetention) * 24 * time.Hour
		artTTL := time.Duration(cfg.Memory.ArtifactRetention) * 24 * time.Hour
		sweeper, err := memory.NewRetentionSweeper(store, cfg.Memory.SweepSchedule, msgTTL, artTTL)
		if err != nil {
			cancel()
			writes.Close()
			_ = store.Close()
			return nil, fmt.Errorf("retention schedule: %w", err)
		}
		sweeper.SweepOnce(ctx)
		go func() { _ = sweeper.Run(ctx) }()
	}

	engine := agent.NewEngine(cfg, personas.Builtin(), provider, guard.NewGuardian(), store, writes)
	engine.SetUser(userID)

	deps := &runtimeDeps{cfg: cfg, engine: engine, store: store, writes: writes, cancel: cancel}

	if err := selectBrand(context.Background(), deps, userID, brandID); err != nil {
		deps.close()
		return nil, err
	}
	return deps, nil
}

// selectBrand installs the requested brand, or the most recent one when
// brandID is empty. No brands at all means guest mode.
func selectBrand(ctx context.Context, deps *runtimeDeps, userID, brandID string) error {
	if brandID != "" {
		brand, err := deps.store.GetBrandProfile(ctx, brandID)
		if err != nil {
			return fmt.Errorf("brand %s: %w", brandID, err)
		}
		deps.engine.SetBrand(&brand)
		return nil
	}

	brands, err := deps.store.ListBrandProfiles(ctx, userID)
	if err != nil {
		return fmt.Errorf("list brands: %w", err)
	}
	if len(brands) > 0 {
		deps.engine.SetBrand(&brands[0])
	}
	return nil
}

func chatCmd() {
	userID := "local"
	brandID := ""
	ranger := personas.AdvisorID

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--debug", "-d":
			logger.Init(true)
			fmt.Println("🔍 Debug mode enabled")
		case "-u", "--user":
			if i+1 < len(args) {
				userID = args[i+1]
				i++
			}
		case "-b", "--brand":
			if i+1 < len(args) {
				brandID = args[i+1]
				i++
			}
		case "-r", "--ranger":
			if i+1 < len(args) {
				ranger = args[i+1]
				i++
			}
		}
	}

	deps, err := buildRuntime(userID, brandID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer deps.close()

	persona, err := deps.engine.Registry().Resolve(ranger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := deps.engine.LoadHistory(context.Background(), persona.ID); err != nil {
		logger.WarnCF("cli", "history load failed", map[string]interface{}{"error": err.Error()})
	}

	printTeamBanner(deps.engine)
	fmt.Printf("Talking to %s %s — /help for commands, Ctrl+C to exit\n", persona.Emoji, persona.Name)
	if persona.SoftAdvisory != "" {
		fmt.Println(persona.SoftAdvisory)
	}
	fmt.Println()
	interactiveMode(deps.engine, persona.ID)
}

func printTeamBanner(engine *agent.Engine) {
	fmt.Printf("%s v%s — your marketing ranger team:\n", appName, version)
	for _, p := range engine.Registry().All() {
		fmt.Printf("  %s %-16s %s\n", p.Emoji, p.ID, p.Name)
	}
	if brand := engine.Brand(); brand != nil {
		fmt.Printf("Brand: %s\n", brand.NameLocal)
	} else {
		fmt.Println("Brand: (guest mode — run 'rangers brand add' to onboard)")
	}
	fmt.Println()
}

func interactiveMode(engine *agent.Engine, currentRanger string) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you: ",
		HistoryFile:     filepath.Join(os.TempDir(), ".rangers_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleInteractiveMode(engine, currentRanger)
		return
	}
	defer rl.Close()

	var lastGuard *guard.Report
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return
		}
		if strings.HasPrefix(input, "/") {
			currentRanger = handleSlashCommand(engine, input, currentRanger, lastGuard)
			continue
		}

		resp, err := engine.Respond(context.Background(), currentRanger, input, nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		lastGuard = resp.Guard
		printResponse(engine, resp)
	}
}

func simpleInteractiveMode(engine *agent.Engine, currentRanger string) {
	reader := bufio.NewReader(os.Stdin)
	var lastGuard *guard.Report
	for {
		fmt.Print("you: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return
		}
		if strings.HasPrefix(input, "/") {
			currentRanger = handleSlashCommand(engine, input, currentRanger, lastGuard)
			continue
		}

		resp, err := engine.Respond(context.Background(), currentRanger, input, nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		lastGuard = resp.Guard
		printResponse(engine, resp)
	}
}

// handleSlashCommand returns the (possibly switched) current ranger id.
func handleSlashCommand(engine *agent.Engine, input, currentRanger string, lastGuard *guard.Report) string {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /ranger <id>   Switch ranger (brand, content, planning, marketing, consult)")
		fmt.Println("  /rangers       List the team")
		fmt.Println("  /clear         Clear this ranger's conversation history")
		fmt.Println("  /report        Show the last brand guard report")
		fmt.Println("  exit           Leave the chat")
	case "/ranger":
		if len(fields) < 2 {
			fmt.Println("Usage: /ranger <id>")
			return currentRanger
		}
		persona, err := engine.Registry().Resolve(fields[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return currentRanger
		}
		if err := engine.LoadHistory(context.Background(), persona.ID); err != nil {
			logger.WarnCF("cli", "history load failed", map[string]interface{}{"error": err.Error()})
		}
		fmt.Printf("Now talking to %s %s\n", persona.Emoji, persona.Name)
		if persona.SoftAdvisory != "" {
			fmt.Println(persona.SoftAdvisory)
		}
		return persona.ID
	case "/rangers":
		for _, p := range engine.Registry().All() {
			marker := "  "
			if p.ID == currentRanger {
				marker = "→ "
			}
			fmt.Printf("%s%s %-16s %s\n", marker, p.Emoji, p.ID, p.Name)
		}
	case "/clear":
		n, err := engine.ClearHistory(context.Background(), currentRanger)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return currentRanger
		}
		fmt.Printf("History cleared (%d persisted turns removed)\n", n)
	case "/report":
		if lastGuard == nil {
			fmt.Println("No guard report yet — ask something first")
			return currentRanger
		}
		fmt.Println(guard.RenderReport(*lastGuard))
	default:
		fmt.Printf("Unknown command: %s (/help for commands)\n", fields[0])
	}
	return currentRanger
}

func printResponse(engine *agent.Engine, resp agent.Response) {
	persona, err := engine.Registry().Resolve(resp.PersonaID)
	emoji := "💬"
	if err == nil {
		emoji = persona.Emoji
	}
	fmt.Printf("\n%s %s: %s\n\n", emoji, resp.Persona, resp.Text)
	for _, out := range resp.Outputs {
		fmt.Printf("📄 Work file: %s (%d chars)\n", out.Title, len(out.Content))
	}
}

func askCmd() {
	userID := "local"
	brandID := ""
	ranger := ""
	message := ""

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--debug", "-d":
			logger.Init(true)
		case "-u", "--user":
			if i+1 < len(args) {
				userID = args[i+1]
				i++
			}
		case "-b", "--brand":
			if i+1 < len(args) {
				brandID = args[i+1]
				i++
			}
		case "-r", "--ranger":
			if i+1 < len(args) {
				ranger = args[i+1]
				i++
			}
		case "-m", "--message":
			if i+1 < len(args) {
				message = args[i+1]
				i++
			}
		default:
			if message == "" && !strings.HasPrefix(args[i], "-") {
				message = args[i]
			}
		}
	}

	if strings.TrimSpace(message) == "" {
		fmt.Println("Usage: rangers ask [-r ranger] \"your question\"")
		os.Exit(1)
	}

	deps, err := buildRuntime(userID, brandID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer deps.close()

	resp, err := deps.engine.Respond(context.Background(), ranger, message, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printResponse(deps.engine, resp)
	if ranger == "" {
		fmt.Printf("(routed: %s)\n", resp.Routing.Reasoning)
	}
}

func routeCmd() {
	args := os.Args[2:]
	if len(args) == 0 {
		fmt.Println("Usage: rangers route \"your question\"")
		os.Exit(1)
	}
	text := strings.Join(args, " ")

	decision := router.Route(text, personas.Builtin())
	fmt.Printf("Ranger:     %s %s\n", decision.Persona.Emoji, decision.Persona.ID)
	fmt.Printf("Confidence: %.2f\n", decision.Confidence)
	fmt.Printf("Reasoning:  %s\n", decision.Reasoning)
	if decision.IsFallback {
		fmt.Println("Fallback:   yes (no ranger matched clearly)")
	}
}

func guardCmd() {
	userID := "local"
	brandID := ""
	file := ""
	original := ""

	args := os.Args[2:]
	text := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-u", "--user":
			if i+1 < len(args) {
				userID = args[i+1]
				i++
			}
		case "-b", "--brand":
			if i+1 < len(args) {
				brandID = args[i+1]
				i++
			}
		case "-f", "--file":
			if i+1 < len(args) {
				file = args[i+1]
				i++
			}
		case "-o", "--original":
			if i+1 < len(args) {
				original = args[i+1]
				i++
			}
		default:
			if text == "" && !strings.HasPrefix(args[i], "-") {
				text = args[i]
			}
		}
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", file, err)
			os.Exit(1)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Println("Usage: rangers guard [-b brand_id] [--file path] \"content to check\"")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, err := memory.NewSQLiteStore(cfg.MemoryPath(), cfg.Memory.MaxBrandsPerUser)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	var brandCtx *guard.BrandContext
	brand, err := resolveBrand(ctx, store, userID, brandID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if brand != nil {
		brandCtx = &guard.BrandContext{
			BrandID:        brand.ID,
			BrandNameTh:    brand.NameLocal,
			CoreUSP:        brand.CoreUSP,
			ToneOfVoice:    brand.ToneOfVoice,
			MoodKeywords:   brand.VisualStyle.MoodKeywords,
			ForbiddenWords: brand.ForbiddenWords,
		}
	}

	var opts *guard.Options
	if original != "" {
		opts = &guard.Options{OriginalContent: original}
	}

	report := guard.NewGuardian().ValidateContent(brandCtx, text, opts)
	fmt.Println(guard.RenderReport(report))
}

func resolveBrand(ctx context.Context, store memory.Store, userID, brandID string) (*memory.BrandProfile, error) {
	if brandID != "" {
		brand, err := store.GetBrandProfile(ctx, brandID)
		if err != nil {
			return nil, err
		}
		return &brand, nil
	}
	brands, err := store.ListBrandProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return nil, nil
	}
	return &brands[0], nil
}

func statusCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	configPath := getConfigPath()

	fmt.Printf("%s Status\n", appName)
	fmt.Printf("Version: %s\n", formatVersion())
	build, _ := formatBuildInfo()
	if build != "" {
		fmt.Printf("Build: %s\n", build)
	}
	fmt.Println()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config:", configPath, "✓")
	} else {
		fmt.Println("Config:", configPath, "✗")
	}

	dbPath := cfg.MemoryPath()
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Println("Store:", dbPath, "✓")
	} else {
		fmt.Println("Store:", dbPath, "not initialized")
	}

	fmt.Printf("Model: %s\n", cfg.Agents.Defaults.Model)

	status := func(enabled bool) string {
		if enabled {
			return "✓"
		}
		return "not set"
	}
	apiReady := strings.TrimSpace(cfg.GetAPIKey()) != ""
	fmt.Println("Anthropic API:", status(apiReady))
	fmt.Println("Brand guard:", status(cfg.Guard.Enabled))
	fmt.Println("Chat ready:", status(apiReady))
	if !apiReady {
		fmt.Println("\nWithout an API key the rangers answer with offline templates only.")
	}
}
