package main

import "github.com/siteguard/siteguard/internal/cli"

func main() {
	cli.Execute()
}
