package main

import "redline-backend/cli"

func main() {
	cli.Execute()
}
