package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"medai/internal/session"
)

// Root runs the interactive loop. The available commands depend on the
// current screen; anything else is reported back to the user. The loop exits
// on scanner EOF or when the user types "exit" or "quit".
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to MedAI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		a.printBanners()

		fmt.Printf("medai %s> ", a.ctrl.Screen())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Println("Bye!")
			return
		}

		switch a.ctrl.Screen() {
		case session.ScreenLogin:
			a.dispatchLogin(ctx, cmd)
		case session.ScreenHome:
			a.dispatchHome(ctx, cmd)
		case session.ScreenSymptoms:
			a.dispatchSymptoms(ctx, cmd, args)
		case session.ScreenResults:
			a.dispatchResults(ctx, cmd)
		case session.ScreenProfile:
			a.dispatchProfile(ctx, cmd, args)
		case session.ScreenHistory:
			a.dispatchHistory(ctx, cmd, args)
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

// printBanners surfaces the pending error message and any transient
// notification before the next prompt.
func (a *App) printBanners() {
	if msg := a.ctrl.ErrorMessage(); msg != "" {
		fmt.Println("! " + msg)
	}
	if notice := a.ctrl.Notice(); notice != "" {
		fmt.Println("* " + notice)
	}
}

func (a *App) dispatchLogin(ctx context.Context, cmd string) {
	switch cmd {
	case "help":
		fmt.Println("Available commands: login, register, exit")
	case "login":
		a.Login(ctx)
	case "register":
		a.Register(ctx)
	default:
		fmt.Println("Unknown command:", cmd)
	}
}

func (a *App) dispatchHome(ctx context.Context, cmd string) {
	switch cmd {
	case "help":
		fmt.Println("Available commands: start, profile, history, logout, exit")
	case "start":
		if a.ctrl.StartAssessment() {
			a.printSymptoms()
		}
	case "profile":
		if a.ctrl.OpenProfile() {
			a.printProfile()
		}
	case "history":
		if a.ctrl.OpenHistory() {
			a.printHistory()
		}
	case "logout":
		a.ctrl.Logout(ctx)
		fmt.Println("Logged out.")
	default:
		fmt.Println("Unknown command:", cmd)
	}
}

func (a *App) dispatchSymptoms(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		fmt.Println("Available commands: list, toggle <symptom>, selected, analyze, home, exit")
	case "list", "l":
		a.printSymptoms()
	case "toggle", "t":
		a.toggleSymptoms(args)
	case "selected":
		a.printSelected()
	case "analyze":
		a.Analyze(ctx)
	case "home":
		a.ctrl.ReturnHome()
	default:
		fmt.Println("Unknown command:", cmd)
	}
}

func (a *App) dispatchResults(ctx context.Context, cmd string) {
	switch cmd {
	case "help":
		fmt.Println("Available commands: show, export, home, exit")
	case "show":
		a.printResults()
	case "export":
		a.ExportReport()
	case "home":
		a.ctrl.ReturnHome()
	default:
		fmt.Println("Unknown command:", cmd)
	}
}

func (a *App) dispatchProfile(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		fmt.Println("Available commands: show, edit, photo <file>, passwd, home, exit")
	case "show":
		a.printProfile()
	case "edit":
		a.EditProfile(ctx)
	case "photo":
		a.AttachPhoto(ctx, args)
	case "passwd":
		a.ChangePassword(ctx)
	case "home":
		a.ctrl.ReturnHome()
	default:
		fmt.Println("Unknown command:", cmd)
	}
}

func (a *App) dispatchHistory(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		fmt.Println("Available commands: list, view <n>, home, exit")
	case "list", "l":
		a.printHistory()
	case "view":
		a.ViewHistoryEntry(args)
	case "home":
		a.ctrl.ReturnHome()
	default:
		fmt.Println("Unknown command:", cmd)
	}
}
