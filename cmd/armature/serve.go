package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/armature"
	httpAdapter "github.com/aretw0/armature/internal/adapters/http"
	"github.com/aretw0/armature/internal/logging"
	"github.com/aretw0/armature/pkg/adapters/file"
	"github.com/aretw0/armature/pkg/adapters/redis"
	"github.com/aretw0/armature/pkg/adapters/sim"
	"github.com/aretw0/armature/pkg/controller"
	"github.com/aretw0/armature/pkg/observability"
	"github.com/aretw0/armature/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long:  `Starts the program store and run controller behind a JSON API, with Prometheus metrics on /metrics. Runs execute against the simulated arm unless this binary is embedded with a hardware effector.`,
	Run: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		port, _ := cmd.Flags().GetString("port")
		dir, _ := cmd.Flags().GetString("programs-dir")
		redisAddr, _ := cmd.Flags().GetString("redis")

		logger := logging.New(logging.ParseLevel(level))

		var store ports.ProgramStore
		if redisAddr != "" {
			store = redis.New(redisAddr, "", 0)
			logger.Info("using redis program store", "addr", redisAddr)
		} else {
			store = file.New(dir)
			logger.Info("using file program store", "dir", dir)
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		engine := armature.New(
			armature.WithLogger(logger),
			armature.WithLifecycleHooks(metrics.Hooks()),
		)
		ctrl := controller.New(engine, sim.New(), controller.WithLogger(logger))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpAdapter.NewHandler(ctrl, store),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting armature server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Stop any in-flight run before taking the listener down so
			// the arm is left idle, not mid-motion.
			ctrl.Stop()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				_ = srv.Close()
			}
			logger.Info("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("programs-dir", ".armature/programs", "Directory for the file program store")
	serveCmd.Flags().String("redis", "", "Redis address for the program store (overrides --programs-dir)")
}
