// run is the reference binary for the task orchestrator. It ships with
// an empty module registry; consumer projects embed the engine and
// register their own modules (see examples/).
package main

import (
	"os"

	"github.com/ghostmind-dev/run/pkg/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
