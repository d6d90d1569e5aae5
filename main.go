package main

import "github.com/notargets/pmg/cmd"

func main() {
	cmd.Execute()
}
