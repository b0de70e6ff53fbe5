package main

import "github.com/eblot/doxyclang/internal/cli"

func main() {
	cli.Execute()
}
