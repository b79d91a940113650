package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (a *App) printSymptoms() {
	fmt.Println("Symptoms (toggle by number or name):")
	selected := map[string]bool{}
	for _, s := range a.ctrl.SelectedSymptoms() {
		selected[s] = true
	}
	for i, s := range a.ctrl.Catalog() {
		mark := " "
		if selected[s] {
			mark = "x"
		}
		fmt.Printf("  [%s] %2d. %s\n", mark, i+1, strings.ReplaceAll(s, "_", " "))
	}
}

// toggleSymptoms flips each named (or numbered) symptom.
func (a *App) toggleSymptoms(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: toggle <symptom|number> ...")
		return
	}
	catalog := a.ctrl.Catalog()
	for _, arg := range args {
		name := arg
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(catalog) {
				fmt.Println("No such symptom:", arg)
				continue
			}
			name = catalog[n-1]
		}
		if !a.ctrl.ToggleSymptom(name) {
			fmt.Println("No such symptom:", arg)
		}
	}
	a.printSelected()
}

func (a *App) printSelected() {
	selected := a.ctrl.SelectedSymptoms()
	if len(selected) == 0 {
		fmt.Println("No symptoms selected.")
		return
	}
	fmt.Println("Selected:", strings.Join(selected, ", "))
}

func (a *App) Analyze(ctx context.Context) {
	if len(a.ctrl.SelectedSymptoms()) == 0 {
		fmt.Println("Select at least one symptom first.")
		return
	}

	fmt.Println("Analyzing symptoms...")
	if err := a.ctrl.Analyze(ctx); err != nil {
		return
	}
	a.printResults()
}

func (a *App) printResults() {
	results := a.ctrl.Results()
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Println("Primary indication:", results[0])
	if len(results) > 1 {
		fmt.Println("Alternatives:     ", strings.Join(results[1:], ", "))
	}
	fmt.Println("Precautions:      ", a.ctrl.Precautions())
}

// ExportReport writes the plain-text clinical report next to the binary.
func (a *App) ExportReport() {
	report, err := a.ctrl.ExportReport()
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	name := a.ctrl.ReportFileName()
	if err := os.WriteFile(name, []byte(report), 0o600); err != nil {
		fmt.Println("Could not write report:", err.Error())
		return
	}
	fmt.Println("Report saved to", name)
}
