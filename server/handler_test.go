package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, ctx *app.RequestContext) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestSimulate_OK(t *testing.T) {
	h := Handler{MaxYears: 10}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/simulations?species=bear&habitat=plains,forest")
	ctx.Request.SetBody([]byte("years: 2\niterations: 2\nsimulation:\n  seed: 42\n"))

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, ctx.Response.Body())
	}
	var resp simulationResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Years != 2 || resp.Iterations != 2 {
		t.Errorf("years/iterations = %d/%d, want 2/2", resp.Years, resp.Iterations)
	}
	if len(resp.Scenarios) != 2 {
		t.Fatalf("scenarios = %d, want 2", len(resp.Scenarios))
	}
	if resp.Scenarios[0].Species != "bear" || resp.Scenarios[1].Habitat != "forest" {
		t.Errorf("scenarios = %+v", resp.Scenarios)
	}
	if !strings.HasPrefix(resp.Report, "Simulation ran for 2 years\nbear:\n") {
		t.Errorf("report = %q", resp.Report)
	}
}

func TestSimulate_JSONBody(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/simulations?species=kangaroo&habitat=plains")
	ctx.Request.SetBody([]byte(`{"years": 1, "simulation": {"seed": 1}}`))

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, ctx.Response.Body())
	}
}

func TestSimulate_InvalidConfig(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte("species:\n  - name: broken\n    attributes:\n      life_span: 3\n"))

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	body := decodeError(t, ctx)
	if body.Error.Code != "invalid_config" {
		t.Errorf("code = %q, want invalid_config", body.Error.Code)
	}
	if !strings.Contains(body.Error.Message, "missing attributes.gestation_months") {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestSimulate_MalformedYAML(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte("years: [1"))

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}

func TestSimulate_HorizonTooLong(t *testing.T) {
	h := Handler{MaxYears: 50}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte("years: 500\n"))

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusUnprocessableEntity; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if code := decodeError(t, ctx).Error.Code; code != "horizon_too_long" {
		t.Errorf("code = %q, want horizon_too_long", code)
	}
}

func TestSimulate_PopulationLimit(t *testing.T) {
	h := Handler{MaxYears: 500, MaxPopulation: 1000}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/simulations?species=rabbit&habitat=plains")
	ctx.Request.SetBody([]byte(`
years: 5
simulation:
  seed: 3
species:
  - name: rabbit
    attributes:
      life_span: 10
      monthly_food_consumption: 0
      monthly_water_consumption: 0
      minimum_temperature: -1000
      maximum_temperature: 1000
      minimum_breeding_age: 0
      gestation_months: 1
`))

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusUnprocessableEntity; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, ctx.Response.Body())
	}
	body := decodeError(t, ctx)
	if body.Error.Code != "population_limit" {
		t.Errorf("code = %q, want population_limit", body.Error.Code)
	}
	if !strings.Contains(body.Error.Message, "rabbit in plains") {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestSimulate_UnknownSpecies(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/simulations?species=baer")
	ctx.Request.SetBody([]byte("years: 1\n"))

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	body := decodeError(t, ctx)
	if body.Error.Code != "unknown_species" {
		t.Errorf("code = %q, want unknown_species", body.Error.Code)
	}
	if !strings.Contains(body.Error.Message, `did you mean "bear"`) {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestDefaults(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.defaults(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"years", "species", "habitats", "weather"} {
		if _, ok := body[key]; !ok {
			t.Errorf("defaults missing %q", key)
		}
	}
}

func TestHealthz(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.healthz(context.Background(), ctx)

	if got, want := string(ctx.Response.Body()), `{"status":"ok"}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"bear", 1},
		{" bear , kangaroo ,", 2},
	}
	for _, tt := range tests {
		if got := splitNames(tt.raw); len(got) != tt.want {
			t.Errorf("splitNames(%q) = %v, want %d names", tt.raw, got, tt.want)
		}
	}
}

func TestSimulate_BaseConfig(t *testing.T) {
	h := Handler{Base: []byte("years: 1\niterations: 1\n"), MaxYears: 1}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/simulations?species=bear&habitat=forest")

	h.simulate(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, ctx.Response.Body())
	}
	var resp simulationResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Years != 1 {
		t.Errorf("Years = %d, want 1 from base config", resp.Years)
	}
}
