package main

import "github.com/g1c/g1c/cmd"

func main() {
	cmd.Execute()
}
