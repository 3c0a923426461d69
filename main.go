package main

import "github.com/pivolabs/pivobot/cmd"

func main() {
	cmd.Execute()
}
