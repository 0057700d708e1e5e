package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

type assetServer struct {
	cfg            serverConfig
	fileServerHits atomic.Int64
}

func newAssetServer(cfg serverConfig) *assetServer {
	return &assetServer{cfg: cfg}
}

func (srv *assetServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.handlerIndex)
	mux.HandleFunc("GET /assets/{filename...}", srv.handlerAssets)

	var handler http.Handler = srv.middlewareMetricsInc(middlewareRejectTraversal(mux))
	if srv.cfg.LogRequests {
		handler = middlewareLog(handler)
	}
	return middlewareRequestID(handler)
}

// run serves on ln until ctx is cancelled, then shuts down gracefully.
func (srv *assetServer) run(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Printf("Served %d requests", srv.fileServerHits.Load())
	return nil
}

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	cfg, err := loadConfig(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ln, err := net.Listen("tcp", cfg.addr())
	if err != nil {
		log.Fatalf("Couldn't listen on %s: %v", cfg.addr(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Serving files from %s on %s",
		color.CyanString(cfg.Root),
		color.New(color.FgGreen, color.Bold).Sprintf("http://%s", ln.Addr()))

	if err := newAssetServer(cfg).run(ctx, ln); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
