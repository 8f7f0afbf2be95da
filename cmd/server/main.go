package main

import (
	stdlog "log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"recipegram/internal/adapters/cache"
	"recipegram/internal/adapters/instagram"
	"recipegram/internal/adapters/recipes"
	"recipegram/internal/adapters/store"
	"recipegram/internal/adapters/web"
	"recipegram/internal/usecases"
	"recipegram/pkg/log"
	"recipegram/pkg/log/transporters"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := setupLogger()
	defer logger.Close()
	log.SetDefault(logger)

	// GraphQL doc ids, hot-reloaded from the config file when present.
	docIDs, err := instagram.LoadDocIDs(envOr("IG_CONFIG", "config/instagram.yaml"))
	if err != nil {
		log.GlobalWarn("doc id config unavailable, using built-in ids", "error", err)
		docIDs = instagram.StaticDocIDs()
	}

	captionCache := setupCache()

	strategies := []usecases.CaptionStrategy{
		instagram.NewGraphQLStrategy(docIDs),
		instagram.NewHTMLStrategy(),
	}

	// oEmbed needs Facebook app credentials; without them the chain ends
	// at HTML scraping.
	if appID, clientToken := os.Getenv("FB_APP_ID"), os.Getenv("FB_CLIENT_TOKEN"); appID != "" && clientToken != "" {
		strategies = append(strategies, instagram.NewOEmbedStrategy(appID, clientToken))
	} else {
		log.GlobalInfo("oEmbed strategy disabled, FB_APP_ID or FB_CLIENT_TOKEN not set")
	}

	// The browser strategy is a heavyweight last resort and stays off
	// unless asked for.
	if os.Getenv("BROWSER_STRATEGY") == "true" {
		pool, err := instagram.NewBrowserPool(nil)
		if err != nil {
			stdlog.Fatalf("Failed to start browser: %v", err)
		}
		defer pool.Close()
		strategies = append(strategies, instagram.NewBrowserStrategy(pool))
	}

	extractUC := usecases.NewExtractCaptionUseCase(captionCache, strategies...)

	recipeStore, err := store.NewFileStore(envOr("RECIPES_FILE", "data/recipes.json"))
	if err != nil {
		stdlog.Fatalf("Failed to open recipe store: %v", err)
	}

	var generateUC *usecases.GenerateRecipeUseCase
	var reformulateUC *usecases.ReformulateRecipeUseCase
	if apiKey := os.Getenv("COHERE_API_KEY"); apiKey != "" {
		generator := recipes.NewCohereGenerator(apiKey, os.Getenv("COHERE_MODEL"))
		generateUC = usecases.NewGenerateRecipeUseCase(extractUC, generator, recipeStore)
		reformulateUC = usecases.NewReformulateRecipeUseCase(generator, recipeStore)
	} else {
		log.GlobalWarn("recipe generation disabled, COHERE_API_KEY not set")
	}
	libraryUC := usecases.NewRecipeLibraryUseCase(recipeStore)

	rateLimiter := web.NewRateLimiter(10, time.Minute) // 10 extractions/min per IP
	handlers := web.NewHandlers(extractUC, generateUC, reformulateUC, libraryUC, docIDs, rateLimiter)

	app := fiber.New(fiber.Config{
		AppName: "Recipegram",
	})

	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())

	web.SetupRoutes(app, handlers)

	port := envOr("PORT", "3000")
	log.GlobalInfo("starting Recipegram", "port", port, "docIds", docIDs.Count())
	if err := app.Listen(":" + port); err != nil {
		logger.Close()
		stdlog.Fatalf("Server stopped: %v", err)
	}
}

// setupLogger builds the structured logger from LOG_LEVEL.
func setupLogger() *log.Logger {
	level := log.Info
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := log.ParseLevel(raw)
		if err != nil {
			stdlog.Printf("Invalid LOG_LEVEL %q, using INFO", raw)
		}
		level = parsed
	}
	return log.New(level, transporters.NewStdout())
}

// setupCache picks Redis when REDIS_ADDR is set, in-process LRU otherwise.
func setupCache() usecases.CaptionCache {
	ttl := time.Duration(envInt("CACHE_TTL_HOURS", 24)) * time.Hour
	maxEntries := envInt("CACHE_MAX_ENTRIES", 1000)

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache, err := cache.NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), 0, ttl)
		if err != nil {
			log.GlobalWarn("redis unavailable, falling back to memory cache", "addr", addr, "error", err)
		} else {
			log.GlobalInfo("using redis caption cache", "addr", addr)
			return redisCache
		}
	}

	return cache.NewMemoryCache(maxEntries, ttl)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		stdlog.Printf("Invalid %s value %q, using default %d", key, raw, fallback)
		return fallback
	}
	return n
}
