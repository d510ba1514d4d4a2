package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StaminaSentinel/internal/collector"
	"StaminaSentinel/internal/config"
	"StaminaSentinel/internal/format"
	"StaminaSentinel/internal/notify"
	"StaminaSentinel/internal/recorder"
	"StaminaSentinel/internal/scheduler"
	"StaminaSentinel/internal/server"
	"StaminaSentinel/internal/sse"
	"StaminaSentinel/internal/store"
	"StaminaSentinel/internal/tick"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StaminaSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Display timezone
	loc := time.Local
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		} else {
			log.Printf("[WARN] unknown timezone %q, using local: %v", cfg.Timezone, err)
		}
	}
	formatter := format.New(cfg.Locale, loc)

	// Init fetchers
	var fetchers []collector.Fetcher
	for _, gameID := range cfg.EnabledGames() {
		gc := cfg.Games[gameID]
		if cfg.UseMockData {
			fetchers = append(fetchers, &collector.MockFetcher{Game: gameID})
			continue
		}
		switch gameID {
		case "wuwa":
			fetchers = append(fetchers, collector.NewKuroFetcher(cfg.API.KuroBaseURL, gc.UID, gc.Region, gc.Token, cfg.Proxy))
		default:
			fetchers = append(fetchers, collector.NewHoyolabFetcher(gameID, cfg.API.HoyolabBaseURL, gc.UID, gc.Region, gc.Cookie, cfg.Proxy))
		}
	}
	if len(fetchers) == 0 {
		log.Println("[WARN] no games enabled; the API will serve empty snapshots")
	}
	col := collector.NewCollector(fetchers...)
	log.Printf("[INFO] tracking games: %v", col.GameIDs())

	// Shared state
	st := store.New()
	ticks := tick.NewSource(time.Duration(cfg.Schedule.TickSeconds) * time.Second)
	evaluator := notify.NewEvaluator()

	// Init notification sink
	var sink notify.Sink
	var telegram *notify.TelegramSink
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		telegram = notify.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sink = telegram
	} else {
		log.Println("[WARN] Telegram not configured, notifications go to the log")
		sink = notify.NewLogSink()
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SSE hub
	hub := sse.NewHub()
	hub.Start()
	defer hub.Stop()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, st, ticks, evaluator, cfg, sink, rec, formatter, hub)
	if err := sched.Register(cfg.Schedule.PollCron); err != nil {
		log.Fatalf("[FATAL] register poll task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if telegram != nil {
		go telegram.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// HTTP + SSE boundary
	srv := server.New(cfg.ListenAddr, st, ticks, sched, cfg, evaluator, formatter, hub)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}()

	// Optional: poll immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, polling now")
		go sched.RunNow()
	}

	log.Println("[INFO] StaminaSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] StaminaSentinel stopped")
}
