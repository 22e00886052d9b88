package main

import "github.com/aweris/namestore/cmd/namestore/cmd"

func main() {
	cmd.Execute()
}
