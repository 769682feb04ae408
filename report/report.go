// Package report formats scenario reports as plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// Write renders reports grouped by species, then habitat, in the order
// given. Causes of death appear in survival-check order and only when
// they account for at least one death.
func Write(w io.Writer, years int, reports []telemetry.ScenarioReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Simulation ran for %d years\n", years)

	lastSpecies := ""
	for i, r := range reports {
		if i == 0 || r.Species != lastSpecies {
			fmt.Fprintf(&b, "%s:\n", r.Species)
			lastSpecies = r.Species
		}
		fmt.Fprintf(&b, "\t%s:\n", r.Habitat)
		fmt.Fprintf(&b, "\t\tAverage Population: %.2f\n", r.AveragePopulation)
		fmt.Fprintf(&b, "\t\tMax Population: %.2f\n", r.MaxPopulation)
		fmt.Fprintf(&b, "\t\tMortality Rate: %.2f%%\n", r.MortalityRate)
		fmt.Fprintf(&b, "\t\tSurvival Rate: %.2f%%\n", r.SurvivalRate)
		b.WriteString("\t\tCause of Death:\n")

		listed := 0
		for _, cause := range components.DeathCauses {
			pct, ok := r.CausePercent[string(cause)]
			if !ok || pct == 0 {
				continue
			}
			fmt.Fprintf(&b, "\t\t\t%.2f%% %s\n", pct, cause.Label())
			listed++
		}
		if listed == 0 {
			b.WriteString("\t\t\tnone\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// String renders reports to a string.
func String(years int, reports []telemetry.ScenarioReport) string {
	var b strings.Builder
	_ = Write(&b, years, reports)
	return b.String()
}
