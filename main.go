package main

import "palbot/cmd"

func main() {
	cmd.Execute()
}
