package main

import "github.com/gaurav-prasanna/shameladocx/cmd"

func main() {
	cmd.Execute()
}
