package main

import "github.com/electioncart/electioncart/internal/cmd"

func main() {
	cmd.Execute()
}
