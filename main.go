package main

import "github.com/raysh454/spectre/internal/cli"

func main() {
	cli.Execute()
}
