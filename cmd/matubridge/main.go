// matubridge keeps an editor's color theme in sync with a matugen-generated
// palette file.
package main

import (
	"os"

	"matubridge/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
