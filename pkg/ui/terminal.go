// Package ui provides colored terminal output for the command line
// interface. Log records go through pkg/logger; this package is only
// for messages aimed directly at the person running the tool.
package ui

import (
	"fmt"
	"sync/atomic"
)

// ASCII banner for the application
const ASCIIBanner = `
  ┌─────────────────────────────────────────────┐
  │  redditextract · search-to-dataset pipeline │
  └─────────────────────────────────────────────┘
`

var quietMode atomic.Bool

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	quietMode.Store(quiet)
}

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintBanner prints the application banner
func PrintBanner() {
	if quietMode.Load() {
		return
	}
	fmt.Print(Cyan(ASCIIBanner))
}

// PrintError prints an error message in red. Errors ignore quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietMode.Load() {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled value in cyan and yellow
func PrintInfo(label string, value string) {
	if quietMode.Load() {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if quietMode.Load() {
		return
	}
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode.Load() {
		return
	}
	fmt.Println(Magenta(msg))
}
