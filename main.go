package main

import "github.com/luthersystems/taglisp/cmd"

func main() {
	cmd.Execute()
}
