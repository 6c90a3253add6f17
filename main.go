// Package main is the entry point for the coverage-checker CLI.
package main

import "github.com/striebwj/coverage-checker/cmd"

func main() {
	cmd.Execute()
}
