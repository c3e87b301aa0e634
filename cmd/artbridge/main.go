// Package main is the entry point for the Artbridge artwork service.
package main

import "github.com/edumarques81/stellar-artbridge/cmd/artbridge/cmd"

func main() {
	cmd.Execute()
}
