package main

import "github.com/dotcommander/tokencraft/cmd"

func main() {
	cmd.Execute()
}
