// Command server serves batch simulations over HTTP.
package main

import (
	"flag"
	"log/slog"
	"os"

	hertzserver "github.com/cloudwego/hertz/pkg/app/server"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/server"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	configPath := flag.String("config", "", "Base config YAML merged under every request")
	maxYears := flag.Int("max-years", 500, "Largest horizon a request may ask for (0 = unlimited)")
	maxIterations := flag.Int("max-iterations", 100, "Largest iteration count a request may ask for (0 = unlimited)")
	maxPopulation := flag.Int("max-population", 5000, "Largest population a run may reach before the request is rejected (0 = unlimited)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var base []byte
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			slog.Error("reading config", "error", err)
			os.Exit(1)
		}
		// Fail fast on a base config no request could fix.
		if _, err := config.Parse(data); err != nil {
			slog.Error("invalid config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		base = data
	}

	h := server.Handler{
		Base:          base,
		MaxYears:      *maxYears,
		MaxIterations: *maxIterations,
		MaxPopulation: *maxPopulation,
	}

	s := hertzserver.Default(hertzserver.WithHostPorts(*addr))
	h.RegisterRoutes(s)

	slog.Info("server listening", "addr", *addr, "max_years", *maxYears, "max_population", *maxPopulation)
	s.Spin()
}
