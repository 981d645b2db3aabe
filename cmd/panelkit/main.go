// Package main provides the entry point for the panelkit CLI.
//
// panelkit loads a sequence of page images, replays drawing events against
// them and exports every drawn region as a bounding rectangle in percent of
// the page.
//
// Usage:
//
//	panelkit annotate 1.png 2.png --script events.txt
//	panelkit history 1.png
//
// See --help for all available options.
package main

func main() {
	Execute()
}
