// The main package for the jobharvest executable.
package main

import (
	"github.com/quangtd/jobharvest/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
