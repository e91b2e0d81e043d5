// Package main provides the notebook CLI.
package main

import "github.com/mesh-intelligence/notebook/internal/cli"

func main() {
	cli.Execute()
}
