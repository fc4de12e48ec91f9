// Package main provides the entry point for the hoaregistry CLI.
//
// hoaregistry collects the public detail records of the Utah Department of
// Commerce HOA registry and exports them as one flat table, with a column
// group for every president, community manager, payoff contact and board
// member found.
//
// Usage:
//
//	hoaregistry scrape
//	hoaregistry scrape --limit 50 --format xlsx --save-dir ./out
//	hoaregistry list --term "ridge"
//
// See --help for all available options.
package main

// main is the entry point for hoaregistry.
func main() {
	Execute()
}
