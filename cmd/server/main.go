// Command server runs the HTTP API. It is equivalent to `redline serve`.
package main

import "redline-backend/cli"

func main() {
	cli.ExecuteServe()
}
