package main

import "memeforge/cmd"

func main() {
	cmd.Execute()
}
