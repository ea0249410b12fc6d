package main

import "github.com/dimasma0305/evilclippy/cmd"

func main() {
	cmd.Execute()
}
