package main

import "georush/cmd/cli/command"

func main() {
	command.Execute()
}
