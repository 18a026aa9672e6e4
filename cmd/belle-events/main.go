package main

import "github.com/pfrederiksen/belle-events/internal/cli"

func main() {
	cli.Execute()
}
