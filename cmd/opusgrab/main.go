package main

import "github.com/finnapple/opusgrab/internal/cli"

func main() {
	cli.Execute()
}
