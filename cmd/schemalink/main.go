package main

import "schema-link/internal/cli"

func main() {
	cli.Execute()
}
