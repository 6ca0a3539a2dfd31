package main

import "selection-capture/src/cmd"

func main() {
	cmd.Execute()
}
