// Population preview tool - interactive species/habitat run with sliders.
//
// Usage: go run ./cmd/preview [-config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	chartWidth   = 640
	chartHeight  = 480
	panelWidth   = windowWidth - chartWidth - 40
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Population Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	model := newPreviewModel(cfg)
	needsRerun := true

	for !rl.WindowShouldClose() {
		if needsRerun {
			model.Run()
			needsRerun = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawChart(model, 10, 10)

		// Draw stats
		s := model.summary
		statsY := int32(chartHeight + 30)
		rl.DrawText(fmt.Sprintf("%s in %s", model.Species().Name, model.Habitat().Name), 15, statsY, 20, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Avg: %.2f  Max: %.0f  Final: %d  Mortality: %.1f%%",
			s.AveragePopulation, s.MaxPopulation, s.FinalPopulation, s.MortalityRate*100), 15, statsY+26, 16, rl.DarkGray)
		if s.ExtinctionMonth >= 0 {
			rl.DrawText(fmt.Sprintf("Extinct in year %d", s.ExtinctionMonth/components.MonthsPerYear), 15, statsY+46, 16, rl.Maroon)
		}
		causeY := statsY + 70
		for _, cause := range components.DeathCauses {
			if pct := s.CausePercent(cause); pct > 0 {
				rl.DrawText(fmt.Sprintf("%.1f%% %s", pct, cause.Label()), 15, causeY, 14, rl.Gray)
				causeY += 16
			}
		}

		// Control panel
		panelX := float32(chartWidth + 30)
		panelY := float32(10)

		rl.DrawText("Habitat Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		p := &model.params
		if slider(&panelY, panelX, "Food (x configured)", "0", "3", &p.FoodScale, 0, 3, "%.2f") {
			needsRerun = true
		}
		if slider(&panelY, panelX, "Water (x configured)", "0", "3", &p.WaterScale, 0, 3, "%.2f") {
			needsRerun = true
		}
		if slider(&panelY, panelX, "Temperature offset", "-40", "40", &p.TempOffset, -40, 40, "%.1f") {
			needsRerun = true
		}
		years := float32(p.Years)
		if slider(&panelY, panelX, "Years", "1", "200", &years, 1, 200, "%.0f") && int(years) != p.Years {
			p.Years = int(years)
			needsRerun = true
		}

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Next Species") {
			model.NextSpecies()
			needsRerun = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Next Habitat") {
			model.NextHabitat()
			needsRerun = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			p.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRerun = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			model.params = defaultParams(cfg)
			needsRerun = true
		}
		panelY += 45
		rl.DrawText(fmt.Sprintf("Seed: %d", p.Seed), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 30

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := model.HabitatYAML()
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and reports whether the value changed.
func slider(panelY *float32, panelX float32, label, minText, maxText string, value *float32, min, max float32, format string) bool {
	rl.DrawText(label, int32(panelX), int32(*panelY), 14, rl.Gray)
	*panelY += 18
	newValue := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: *panelY, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+float32(panelWidth-70)), int32(*panelY+2), 16, rl.DarkGray)
	*panelY += 35

	if newValue != *value {
		*value = newValue
		return true
	}
	return false
}

// drawChart plots the population curve with year gridlines.
func drawChart(m *previewModel, x, y int32) {
	rl.DrawRectangle(x, y, chartWidth, chartHeight, rl.White)
	rl.DrawRectangleLines(x, y, chartWidth, chartHeight, rl.DarkGray)

	pops := m.populations
	if len(pops) < 2 {
		return
	}

	maxPop := m.summary.MaxPopulation
	if maxPop < 1 {
		maxPop = 1
	}
	xStep := float32(chartWidth) / float32(len(pops)-1)
	yScale := float32(chartHeight-20) / float32(maxPop)
	baseY := float32(y + chartHeight)

	// Year gridlines, thinned so at most ~20 are drawn
	years := (len(pops) - 1) / components.MonthsPerYear
	every := years/20 + 1
	for yr := every; yr <= years; yr += every {
		gx := int32(float32(x) + float32(yr*components.MonthsPerYear)*xStep)
		rl.DrawLine(gx, y, gx, y+chartHeight, rl.LightGray)
	}

	for i := 1; i < len(pops); i++ {
		from := rl.Vector2{X: float32(x) + float32(i-1)*xStep, Y: baseY - float32(pops[i-1])*yScale}
		to := rl.Vector2{X: float32(x) + float32(i)*xStep, Y: baseY - float32(pops[i])*yScale}
		rl.DrawLineEx(from, to, 2, rl.DarkGreen)
	}

	rl.DrawText(fmt.Sprintf("%.0f", maxPop), x+4, y+4, 14, rl.Gray)
	rl.DrawText(fmt.Sprintf("%d yrs", years), x+chartWidth-60, y+chartHeight-18, 14, rl.Gray)
}
