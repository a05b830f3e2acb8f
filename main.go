package main

import "github.com/jywlabs/listing/cmd"

func main() {
	cmd.Execute()
}
