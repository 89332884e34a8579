// Command snippets loads and filters user files, compares numbers and walks integer ranges.
//
//	snippets users --file users.json --min-age 25 --city "New York"
//	snippets compare 5 10
//	snippets range 1 5
package main

import (
	"os"

	"github.com/amp-labs/amp-snippets/cli"
)

func main() {
	os.Exit(cli.Execute())
}
