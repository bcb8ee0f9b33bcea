package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"cwl2slack/internal"
	"cwl2slack/internal/config"
	"cwl2slack/internal/webhooks"
	"cwl2slack/log"
)

func main() {
	fs := pflag.NewFlagSet("devserver", pflag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.BoolVar(&flags.DryRun, "dry-run", false, "log notifications instead of posting them; SLACK_WEBHOOK_URL and SLACK_CHANNEL become optional")
	_ = fs.Parse(os.Args[1:])

	ctx, cancel := context.WithCancel(context.Background())
	conf, err := config.InitializeConfig(*flags)
	if err != nil {
		log.Logger().Fatalf("failed to load config: %v", err)
	}

	log.Logger().Infoln("Booting cwl2slack dev server")

	server, err := newServer(ctx, conf)
	if err != nil {
		log.Logger().Fatal("Failed to create server: " + err.Error())
	}

	defer handlePanic(server)

	webServer := internal.LoadWebServer(server)
	webServer.RegisterOnShutdown(func() {
		server.Closing.Store(true)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Logger().Infof("Listening on %s", webServer.Addr)
		if webErr := webServer.ListenAndServe(); webErr != nil && !errors.Is(webErr, http.ErrServerClosed) {
			log.Logger().Fatalf("Failed to start web server: %s", webErr)
		}
		log.Logger().Infoln("Web server stopped")
	}()

	handleInterrupt(server, &wg, webServer, cancel)
}

func newServer(ctx context.Context, conf *config.Config) (*internal.Server, error) {
	if conf.DryRun {
		return internal.NewServerWithNotifier(conf, &webhooks.DryRunSender{
			Channel:      conf.Channel,
			FunctionName: conf.FunctionName,
		}), nil
	}
	return internal.NewServer(ctx, conf)
}

func handlePanic(server *internal.Server) {
	if r := recover(); r != nil {
		log.Logger().Error("Recovered from panic", r)
		server.Closing.Store(true)
		os.Exit(1)
	}
}

// handleInterrupt blocks until SIGINT/SIGTERM, then drains in-flight invocations.
func handleInterrupt(server *internal.Server, wg *sync.WaitGroup, webServer *http.Server, cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Logger().Infoln("Received interrupt signal, waiting for in-flight invocations...")
	server.Closing.Store(true)
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	log.Logger().Info("... Shutting down HTTP server")
	if err := webServer.Shutdown(ctx); err != nil {
		log.Logger().Errorf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Logger().Info("All tasks completed, exiting")
}
