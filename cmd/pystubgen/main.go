package main

import "github.com/toyz/pystubgen/internal/cli"

func main() {
	cli.Execute()
}
