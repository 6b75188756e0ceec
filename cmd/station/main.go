package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partscan/internal/cache"
	"partscan/internal/config"
	"partscan/internal/handler"
	"partscan/internal/lookup"
	"partscan/internal/model"
	"partscan/internal/pipeline"
	"partscan/internal/repository"
	"partscan/internal/router"
	"partscan/internal/scan"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting partscan station...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize row store based on config. An unreadable table is
	// fatal: without it the duplicate-key index cannot be seeded.
	var store repository.RowStore
	var err error
	switch cfg.StationDB.Type {
	case "mysql":
		store, err = repository.NewMySQLRowStore(cfg.StationDB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		log.Println("MySQL row store initialized")
	case "memory":
		store = repository.NewMemoryRowStore()
		log.Println("In-memory row store initialized (no persistence)")
	default: // sqlite
		store, err = repository.NewSQLiteRowStore(cfg.StationDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		log.Println("SQLite row store initialized")
	}
	defer store.Close()

	// Lookup cache: memory unless Redis is configured and reachable.
	var lookupCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, using memory cache: %v", err)
		} else {
			defer redisCache.Close()
			lookupCache = redisCache
			log.Println("Redis lookup cache initialized")
		}
	}
	if lookupCache == nil {
		memCache := cache.NewMemoryCache()
		defer memCache.Close()
		lookupCache = memCache
	}

	// Catalog client with cached product details.
	digikey := lookup.NewDigikeyClient(lookup.DigikeyConfig{
		BaseURL:        cfg.Digikey.BaseURL,
		ClientID:       cfg.Digikey.ClientID,
		AccessToken:    cfg.Digikey.AccessToken,
		LocaleLanguage: cfg.Digikey.LocaleLanguage,
		LocaleSite:     cfg.Digikey.LocaleSite,
		Timeout:        cfg.Digikey.Timeout,
	})
	catalog := lookup.NewCachedClient(digikey, lookupCache, cfg.Cache.TTL)

	// Assemble the pipeline. The notify hook is the audio trigger:
	// a terminal bell on commit so the operator hears the row land.
	pipe := pipeline.New(store, catalog, pipeline.Config{
		QueueSize:     cfg.Scanner.QueueSize,
		LookupTimeout: cfg.Digikey.Timeout,
		Notify: func(n pipeline.Notification, rec *model.InventoryRecord) {
			if n == pipeline.NotifyCommitted {
				fmt.Print("\a")
			}
		},
	})

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pipe.LoadIndex(startupCtx); err != nil {
		startupCancel()
		log.Fatalf("Failed to load duplicate-key index: %v", err)
	}
	startupCancel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go pipe.Run(ctx)

	// Operator commands arrive line by line on stdin.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			pipe.SubmitCommand(scanner.Text())
		}
	}()

	// Optional TCP line device: a linear scanner emitting one payload
	// per line. The deduplicator is owned by this producer alone.
	if cfg.Scanner.LineAddr != "" {
		go runLineDevice(ctx, cfg, pipe)
	}

	// Read-only HTTP surface over the committed table.
	healthHandler := handler.New(cfg.App.Version)
	rowsHandler := handler.NewRowsHandler(store, cfg.StationDB.Type)
	r := router.New(router.Config{
		Handler:     healthHandler,
		RowsHandler: rowsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down station...")

	cancel() // stops the pipeline after the event in flight finishes

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Station stopped")
}

// runLineDevice keeps a connection to the line scanner, reconnecting
// with a short backoff. New sightings go to the pipeline; rapid
// repeats of the same payload are suppressed here.
func runLineDevice(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline) {
	dedup := scan.NewDeduplicator(cfg.Scanner.DedupWindow, cfg.Scanner.DedupCapacity)

	for ctx.Err() == nil {
		conn, err := net.Dial("tcp", cfg.Scanner.LineAddr)
		if err != nil {
			log.Printf("[LineDevice] connect to %s failed: %v", cfg.Scanner.LineAddr, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}
		log.Printf("[LineDevice] connected to %s", cfg.Scanner.LineAddr)

		// Unblock the read loop on shutdown.
		stop := context.AfterFunc(ctx, func() { conn.Close() })

		err = scan.Stream(conn, cfg.Scanner.LineSymbology, func(e scan.Event) {
			if dedup.Observe(e.Text, e.At) {
				return
			}
			pipe.SubmitScan(e)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("[LineDevice] read error: %v", err)
		}
		stop()
		conn.Close()
	}
}
