// Package main implements odataq, a command-line companion to the server.
// It parses query strings the way the server does, issues service tokens for
// local testing, and seeds the people table from a JSON file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
