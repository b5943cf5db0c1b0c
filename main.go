// ABOUTME: Entry point for the speedrun CLI, API server and MCP server
// ABOUTME: Hands off to the cobra command tree in package cli
package main

import "github.com/harperreed/speedrun/cli"

const version = "0.2.0"

func main() {
	cli.Execute(version)
}
