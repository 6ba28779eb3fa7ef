package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"philcali.me/catalog/internal/config"
	"philcali.me/catalog/internal/logging"
	"philcali.me/catalog/internal/media"
)

// MAX_INPUT_BYTES bounds a single batch read from stdin.
const MAX_INPUT_BYTES = 1 << 20

type App struct {
	Resolver media.Resolver
}

func NewApp(cfg *config.URLConvert) *App {
	return &App{
		Resolver: media.NewStaticResolver(cfg.Media),
	}
}

func (app *App) Run(ctx context.Context, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	input, err := io.ReadAll(io.LimitReader(stdin, MAX_INPUT_BYTES+1))
	if err != nil {
		fmt.Fprintf(stderr, "Error reading input: %s\n", err)
		return 1
	}
	if len(input) > MAX_INPUT_BYTES {
		fmt.Fprintf(stderr, "Error reading input: batch exceeds %d bytes\n", MAX_INPUT_BYTES)
		return 1
	}
	urls, err := media.ResolveAll(ctx, app.Resolver, media.ParseIdentifiers(string(input)))
	if err != nil {
		fmt.Fprintf(stderr, "Error converting URLs: %s\n", err)
		return 1
	}
	fmt.Fprintln(stdout, strings.Join(urls, ","))
	return 0
}

func main() {
	cfg, err := config.LoadURLConvert()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %s\n", err)
		os.Exit(1)
	}
	// Info chatter is dropped unless debug is asked for.
	if cfg.Log.Level == logging.LevelInfo {
		cfg.Log.Level = logging.LevelWarn
	}
	logger := logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logger.WithContext(ctx)
	code := NewApp(cfg).Run(ctx, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
