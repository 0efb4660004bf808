// Command nibelgen generates navigation entries for functions and
// fragment types marked with //nibel: directives.
package main

import (
	"os"

	"github.com/go-drift/nibel/cmd/nibelgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
