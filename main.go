package main

import "github.com/agentic-research/potoo/cmd"

func main() {
	cmd.Execute()
}
