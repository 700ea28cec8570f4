package main

import "hygiene-analyzer/cli"

func main() {
	cli.Execute()
}
