package main

import "rainbow-recipes/cmd"

func main() {
	cmd.Execute()
}
