// Package server exposes batch simulations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/report"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/telemetry"
)

// ErrHorizonTooLong is returned when a request asks for more work than the
// server allows.
var ErrHorizonTooLong = errors.New("simulation horizon too long")

// Handler serves the simulation API.
type Handler struct {
	Base          []byte // YAML layered between the defaults and each request
	MaxYears      int    // 0 = unlimited
	MaxIterations int    // 0 = unlimited
	MaxPopulation int    // animals alive in any month of any run; 0 = unlimited
}

// RegisterRoutes mounts the API on s.
func (h Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api")
	api.POST("/simulations", h.simulate)
	api.GET("/config/defaults", h.defaults)

	s.GET("/healthz", h.healthz)
}

type simulationResponse struct {
	Years      int                        `json:"years"`
	Iterations int                        `json:"iterations"`
	Scenarios  []telemetry.ScenarioReport `json:"scenarios"`
	Bookmarks  []telemetry.Bookmark       `json:"bookmarks"`
	Report     string                     `json:"report"`
}

// simulate runs a batch described by a YAML or JSON body merged over the
// server's base configuration. Optional species and habitat query parameters take
// comma-separated names.
func (h Handler) simulate(_ context.Context, ctx *app.RequestContext) {
	cfg, err := config.Parse(h.Base, ctx.Request.Body())
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_config", err.Error())
		return
	}
	if err := h.checkLimits(cfg); err != nil {
		writeError(ctx, err)
		return
	}

	scenarios, err := cfg.Scenarios(splitNames(ctx.Query("species")), splitNames(ctx.Query("habitat")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}

	start := time.Now()
	batch := cfg.Batch(scenarios)
	if h.MaxPopulation > 0 && (batch.MaxPopulation == 0 || batch.MaxPopulation > h.MaxPopulation) {
		batch.MaxPopulation = h.MaxPopulation
	}
	results, err := sim.RunBatch(batch)
	if err != nil {
		slog.Warn("simulation rejected", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		writeError(ctx, err)
		return
	}
	records, reports := telemetry.Analyze(batch, results, cfg.Bookmarks)

	bookmarks := []telemetry.Bookmark{}
	for _, rec := range records {
		bookmarks = append(bookmarks, rec.Bookmarks...)
	}

	slog.Info("simulation",
		"scenarios", len(scenarios),
		"years", cfg.Years,
		"iterations", cfg.Iterations,
		"seed", cfg.Simulation.Seed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	ctx.JSON(consts.StatusOK, simulationResponse{
		Years:      cfg.Years,
		Iterations: cfg.Iterations,
		Scenarios:  reports,
		Bookmarks:  bookmarks,
		Report:     report.String(cfg.Years, reports),
	})
}

func (h Handler) defaults(_ context.Context, ctx *app.RequestContext) {
	cfg, err := config.Parse(h.Base)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, cfg)
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func (h Handler) checkLimits(cfg *config.Config) error {
	if h.MaxYears > 0 && cfg.Years > h.MaxYears {
		return fmt.Errorf("%w: %d years requested, limit is %d", ErrHorizonTooLong, cfg.Years, h.MaxYears)
	}
	if h.MaxIterations > 0 && cfg.Iterations > h.MaxIterations {
		return fmt.Errorf("%w: %d iterations requested, limit is %d", ErrHorizonTooLong, cfg.Iterations, h.MaxIterations)
	}
	return nil
}

func splitNames(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func writeError(ctx *app.RequestContext, err error) {
	var unknown *config.UnknownNameError
	switch {
	case errors.As(err, &unknown):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_"+unknown.Kind, err.Error())
	case errors.Is(err, config.ErrInvalid):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_config", err.Error())
	case errors.Is(err, ErrHorizonTooLong):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "horizon_too_long", err.Error())
	case errors.Is(err, sim.ErrPopulationLimit):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "population_limit", err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
