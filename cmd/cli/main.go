package main

import "blindtasting/cmd/cli/command"

func main() {
	command.Execute()
}
