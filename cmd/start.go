/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"wefund/domain/config"
	"wefund/interface/exporter"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts relaying committed instructions",
	Long: `Starts relaying committed instructions through the driver wallet and serves metrics.
It stops on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("start called.")

		exporter.Init()
		defaultDependencyInject()
		relayDependencyInject()

		server := serveMetrics(config.GetMetricsAddr())

		quit := make(chan bool)
		relayTicker := schedule(relay, config.GetRelayInterval(), quit)

		signal.Ignore()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		s := <-stop
		log.Printf("Got signal '%v', stopping", s)

		relayTicker.Stop()
		close(quit)

		if server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		}
	},
}

func schedule(task func(), interval time.Duration, done chan bool) *time.Ticker {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {

			case <-ticker.C:
				ticker.Stop()
				task()
				ticker.Reset(interval)

			case <-done:
				return
			}
		}
	}()
	return ticker
}

func relay() {
	sent, err := relayInteractor.Relay(context.Background())
	if err != nil {
		fmt.Printf("❌ No instruction is relayed due to error: %v\n", err.Error())
		return
	}
	if sent > 0 {
		fmt.Printf("✅ %v instruction(s) relayed\n", sent)
	}
}

func serveMetrics(addr string) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("🔴 metrics server - %v\n", err.Error())
		}
	}()
	return server
}

func init() {
	rootCmd.AddCommand(startCmd)
}
