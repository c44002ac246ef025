// Package main is the entry point for the matchstats CLI, which aggregates
// saved football matches into team and player statistics and serves them over
// HTTP.
package main

import "github.com/pable/go-match-stats/cmd"

func main() {
	cmd.Execute()
}
