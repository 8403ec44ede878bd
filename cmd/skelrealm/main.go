package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/skelrealm/server/internal/config"
	"github.com/skelrealm/server/internal/core/event"
	coresys "github.com/skelrealm/server/internal/core/system"
	"github.com/skelrealm/server/internal/core/timer"
	"github.com/skelrealm/server/internal/data"
	"github.com/skelrealm/server/internal/handler"
	gonet "github.com/skelrealm/server/internal/net"
	"github.com/skelrealm/server/internal/net/packet"
	"github.com/skelrealm/server/internal/persist"
	"github.com/skelrealm/server/internal/scripting"
	"github.com/skelrealm/server/internal/system"
	"github.com/skelrealm/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             SkelRealm  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     realtime action game · Go server      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printWarn(msg string) {
	fmt.Printf("  \033[33m!\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Static data. A failed load is logged and the built-in tables are used.
	printSection("catalog")
	loadTimeout := cfg.Catalog.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	catalog, doc, closeSrc, err := loadCatalog(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("catalog load failed, using built-in defaults", zap.Error(err))
		printWarn("catalog unavailable, built-in defaults in use")
	} else {
		printOK(fmt.Sprintf("catalog loaded (%s)", cfg.Catalog.Source))
	}
	closeSrc()
	for _, r := range doc.Rejected {
		log.Warn("catalog entry rejected", zap.String("entry", r))
	}
	printStat("monster archetypes", catalog.MonsterCount())
	printStat("item definitions", catalog.ItemCount())
	printStat("equipment pool", len(catalog.EquipmentPool()))
	fmt.Println()

	// 4. Scripts
	printSection("scripts")
	luaEngine, err := scripting.NewEngine(cfg.Scripts.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua formulas loaded")
	fmt.Println()

	// 5. Audit trail (optional)
	var audit *persist.AuditLog
	if cfg.Audit.Dir != "" {
		audit = persist.NewAuditLog(cfg.Audit.Dir, log)
		defer func() {
			if err := audit.Close(); err != nil {
				log.Warn("audit close", zap.Error(err))
			}
		}()
	}

	// 6. Network
	netServer, err := gonet.NewServer(cfg.Network, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go func() {
		if err := netServer.Serve(); err != nil {
			log.Error("http server stopped", zap.Error(err))
		}
	}()
	sessions := gonet.NewSessionStore()

	// 7. World, handlers and systems
	worldState := world.NewState()
	bus := event.NewBus()
	timers := timer.NewScheduler()
	deps := &handler.Deps{
		Config:    cfg,
		Log:       log,
		World:     worldState,
		Catalog:   catalog,
		Scripting: luaEngine,
		Bus:       bus,
		Timers:    timers,
		Out:       gonet.NewHub(sessions, log),
		Clock:     system.WallClock{},
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	deps.Combat = system.NewCombatSystem(deps)
	deps.Loot = system.NewLootSystem(catalog, deps.Rand)
	deps.Ground = system.NewItemGroundSystem(deps)
	deps.Death = system.NewDeathSystem(deps)

	reg := packet.NewRegistry(log)
	handler.RegisterAll(reg, deps)

	respawn := system.NewRespawnSystem(deps)
	if audit != nil {
		system.SubscribeAudit(bus, audit)
	}

	printSection("world")
	printStat("monsters spawned", respawn.SpawnInitial())
	printStat("population cap", respawn.Cap())
	fmt.Println()

	runner := coresys.NewRunner(log, cfg.Network.TickRate)
	runner.Register(system.NewInputSystem(netServer, reg, sessions, cfg.Network.MaxEventsPerPoll, deps, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewTimerSystem(timers, deps.Clock))
	runner.Register(system.NewMonsterAISystem(deps))
	runner.Register(system.NewSnapshotSystem(deps))
	runner.Register(system.NewOutputSystem(sessions))

	// 8. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()
	poll := time.NewTicker(cfg.Network.InputPoll)
	defer poll.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s%s", netServer.Addr().String(), cfg.Network.Path))
	printReady(fmt.Sprintf("game loop started (tick: %s, input poll: %s)", cfg.Network.TickRate, cfg.Network.InputPoll))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Network.TickRate)
		case <-poll.C:
			runner.Poll(cfg.Network.InputPoll)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := netServer.Shutdown(shutdownCtx); err != nil {
				log.Warn("http shutdown", zap.Error(err))
			}
			cancel()
			sessions.ForEach(func(sess *gonet.Session) {
				sess.FlushOutput()
				sess.Close()
			})
			log.Info("server stopped")
			return nil
		}
	}
}

// loadCatalog opens the configured catalog source and loads it. The
// returned closer releases the source's connections and is always non-nil.
func loadCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*data.Catalog, *data.Document, func(), error) {
	noop := func() {}
	dec, err := data.NewDecoder()
	if err != nil {
		cat, doc, _ := data.Load(ctx, data.BuiltinSource{})
		return cat, doc, noop, fmt.Errorf("catalog schemas: %w", err)
	}

	var src data.Source
	release := noop
	switch cfg.Catalog.Source {
	case "yaml", "":
		src = data.NewFileSource(cfg.Catalog.Path, dec)
	case "postgres":
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cat, doc, _ := data.Load(ctx, data.BuiltinSource{})
			return cat, doc, noop, fmt.Errorf("database: %w", err)
		}
		release = db.Close
		if cfg.Catalog.Migrate {
			if err := persist.RunMigrations(ctx, db.Pool); err != nil {
				cat, doc, _ := data.Load(ctx, data.BuiltinSource{})
				return cat, doc, release, fmt.Errorf("migrations: %w", err)
			}
			printOK("postgres migrations applied")
		}
		src = persist.NewCatalogRepo(db, dec)
	case "sqlite":
		db, err := persist.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			cat, doc, _ := data.Load(ctx, data.BuiltinSource{})
			return cat, doc, noop, fmt.Errorf("sqlite: %w", err)
		}
		release = func() { db.Close() }
		if cfg.Catalog.Migrate {
			if err := persist.RunSQLiteMigrations(ctx, db); err != nil {
				cat, doc, _ := data.Load(ctx, data.BuiltinSource{})
				return cat, doc, release, fmt.Errorf("migrations: %w", err)
			}
			printOK("sqlite migrations applied")
		}
		src = persist.NewSQLiteCatalog(db, dec)
	case "builtin":
		src = data.BuiltinSource{}
	default:
		cat, doc, _ := data.Load(ctx, data.BuiltinSource{})
		return cat, doc, noop, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}

	cat, doc, err := data.Load(ctx, src)
	return cat, doc, release, err
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
