// The main package for the salaryscout executable.
package main

import (
	"github.com/salaryscout/salaryscout/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
