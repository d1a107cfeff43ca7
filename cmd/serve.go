package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/breach/internal/config"
	"github.com/conneroisu/breach/internal/content"
	"github.com/conneroisu/breach/internal/logging"
	"github.com/conneroisu/breach/internal/server"
	"github.com/conneroisu/breach/internal/styles"
	"github.com/conneroisu/breach/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file.breach]",
	Short: "Start the development server with live reload",
	Long: `Start the development server with live reload capability.
Watches the source file for changes and refreshes connected browsers.

Examples:
  breach serve                 # Serve the first .breach file in this directory
  breach serve site.breach     # Serve a specific file
  breach serve -p 3000         # Serve on another port`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Duration("debounce", watcher.DefaultDebounce, "Quiet period after an edit before reloading")
	serveCmd.Flags().Bool("no-watch", false, "Serve the startup snapshot without watching for changes")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("watch.debounce", serveCmd.Flags().Lookup("debounce"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch.Enabled = false
	}

	if len(args) == 1 {
		cfg.TargetFile = args[0]
	} else {
		cfg.TargetFile, err = findBreachFile(".")
		if err != nil {
			return err
		}
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var compiler styles.Compiler
	if dart, err := styles.NewDartCompiler(); err != nil {
		logger.Warn(ctx, err, "dart-sass unavailable, serving scss source uncompiled")
		compiler = styles.Passthrough{}
	} else {
		defer dart.Close()
		compiler = dart
	}
	pre := styles.NewPreprocessor(compiler, logger.WithComponent("styles"))

	// The initial read is the only fatal pipeline step; afterwards the
	// last good snapshot keeps serving through any reload failure.
	snap, err := content.BuildFile(ctx, cfg.TargetFile, pre)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.TargetFile, err)
	}
	store := content.NewStore(snap)

	srv := server.New(cfg, store, logger.WithComponent("server"))

	if cfg.Watch.Enabled {
		fw, err := watcher.New(cfg.TargetFile, store, pre, srv, logger.WithComponent("watcher"), watcher.Options{
			Debounce: cfg.Watch.Debounce,
			Poll:     cfg.Watch.Poll,
		})
		if err != nil {
			logger.Error(ctx, err, "file watching disabled, serving startup snapshot only")
		} else {
			fw.Start(ctx)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info(ctx, "shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error(ctx, err, "shutdown error")
		}
		cancel()
	}()

	fmt.Printf("Serving %s at http://%s:%d\n", cfg.TargetFile, cfg.Server.Host, cfg.Server.Port)
	return srv.Start(ctx)
}

// findBreachFile returns the first .breach file in dir.
func findBreachFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".breach" {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no .breach file found in %s", dir)
}
