package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/webhook-bridge/bridge"
	"github.com/marcelsud/webhook-bridge/config"
	"github.com/marcelsud/webhook-bridge/internal/http/chi"
	"github.com/marcelsud/webhook-bridge/metrics"
	redisqueue "github.com/marcelsud/webhook-bridge/queue/redis"
	"github.com/marcelsud/webhook-bridge/routes"
)

const TIMEOUT = 30 * time.Second

/*
 * As importações devem ser feitas apenas em uma direção: para baixo. O aplicativo (api)
 * importa a camada de negócio (bridge), que importa a camada de transporte (queue)
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	q, err := redisqueue.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer q.Close(ctx)

	m, err := metrics.NewBridge(q.Pending)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer m.Shutdown(ctx)

	client := bridge.NewClient(q, cfg.Sender, time.Duration(cfg.ResponseTimeoutMs)*time.Millisecond, m)

	loader := routes.NewLoader()
	if err := loader.Load(cfg.SourcesFile); err != nil {
		fmt.Println(err)
		return
	}

	r := chi.Handlers(ctx, client, loader, m.ServeHTTP())
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
