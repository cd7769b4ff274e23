// Package main is the entry point for the routegen CLI.
package main

import "routegen.dev/pkg/routegen/cmd"

func main() {
	cmd.Execute()
}
