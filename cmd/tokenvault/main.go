// Command tokenvault is the local project vault CLI.
package main

import (
	"os"

	"github.com/example/tokenvault/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
