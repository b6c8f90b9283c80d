package main

import "github.com/agentic-research/shortcuts/cmd"

func main() {
	cmd.Execute()
}
