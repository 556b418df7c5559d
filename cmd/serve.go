package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"table-reconciler/core/capture"
	"table-reconciler/core/config"
	"table-reconciler/core/engine"
	"table-reconciler/core/loader"
	"table-reconciler/core/logger"
	"table-reconciler/core/middleware/auth"
	"table-reconciler/core/middleware/requestid"
	"table-reconciler/core/oracle"
	"table-reconciler/core/storage"

	"table-reconciler/feature/render"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reconciliation HTTP server",
	Long:  `Starts the HTTP server exposing the render engine.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Optional capture recorder. A capture setup failure is not
		// fatal: the server runs without the debugging sink.
		var recorder engine.Recorder
		if cfg.Capture.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Warn("Capture disabled: storage client failed", zap.Error(err))
			} else {
				rec := capture.NewRecorder(client, cfg.Storage.Bucket, cfg.Capture.Prefix, logg)
				if err := rec.EnsureBucket(context.Background()); err != nil {
					logg.Warn("Capture disabled: bucket setup failed", zap.Error(err))
				} else {
					recorder = rec
					logg.Info("Cycle capture enabled", zap.String("bucket", cfg.Storage.Bucket))
				}
			}
		}

		// 4. Render engine behind its serialization gate. HTTP payloads
		// are JSON values, so the JSON deep-equality registry applies.
		eng := engine.New(cfg.Engine, oracle.NewJSONRegistry(), logg, recorder)
		defer eng.Close()

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// Middleware: request IDs first so everything is traceable.
		app.Use(requestid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequestID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		mgr := loader.NewManager(logg)
		mgr.Register(render.NewFeature(eng, logg))
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
