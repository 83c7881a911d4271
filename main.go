package main

import "github.com/gaurav-prasanna/sdspull/cmd"

func main() {
	cmd.Execute()
}
