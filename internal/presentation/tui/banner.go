package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _____ _        _____            _____          ",
	" |_   _(_) ___  |_   _|_ _  ___  |_   _|__   ___ ",
	"   | | | |/ __|   | |/ _` |/ __|   | |/ _ \\ / _ \\",
	"   | | | | (__    | | (_| | (__    | | (_) |  __/",
	"   |_| |_|\\___|   |_|\\__,_|\\___|   |_|\\___/ \\___|",
}

var bannerColors = []string{"#ef4444", "#f97316", "#a78bfa", "#818cf8", "#3b82f6"}

// Welcome is printed under the banner, or alone when colour is off.
const Welcome = "Welcome to the game of Tic-Tac-Toe!"

// PrintBanner writes the title art with a red-to-blue gradient (X to O).
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, Welcome)
}
