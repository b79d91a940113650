package cli

import (
	"fmt"
	"strconv"
	"strings"
)

func (a *App) printHistory() {
	history := a.ctrl.History()
	if len(history) == 0 {
		fmt.Println("No assessments archived yet.")
		return
	}
	for i, e := range history {
		fmt.Printf("%2d. %s %s  %s\n", i+1, e.Date, e.Time, e.TopMatch)
	}
}

// ViewHistoryEntry shows a single archived assessment. It layers over the
// history screen without changing it.
func (a *App) ViewHistoryEntry(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: view <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("Usage: view <n>")
		return
	}

	entry, ok := a.ctrl.HistoryEntryAt(n - 1)
	if !ok {
		fmt.Println("No such entry:", args[0])
		return
	}

	fmt.Println("Assessment Report")
	fmt.Println("Date:       ", entry.Date, entry.Time)
	fmt.Println("Top match:  ", entry.TopMatch)
	if len(entry.AllPredictions) > 1 {
		fmt.Println("Also ranked:", strings.Join(entry.AllPredictions[1:], ", "))
	}
	fmt.Println("Symptoms:   ", strings.Join(entry.Symptoms, ", "))
	precautions := entry.Precautions
	if precautions == "" {
		precautions = "No detailed precautions archived for this record."
	}
	fmt.Println("Precautions:", precautions)
}
