package main

import "github.com/optionforge/optiond/internal/cli"

func main() {
	cli.Execute()
}
