package main

import (
	"fmt"
	"os"
)

// Set by ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

// @title           Task Board API
// @version         1.0
// @description     Tasks with a status workflow, delegated to users.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @tag.name Tasks
// @tag.description Task workflow: status and assignment

// @tag.name Users
// @tag.description User management

// @schemes http
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
