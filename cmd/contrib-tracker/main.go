package main

import "github.com/pfrederiksen/contrib-tracker/internal/cli"

func main() {
	cli.Execute()
}
