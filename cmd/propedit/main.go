// Command propedit converts, stores and exports typed content property
// values.
package main

import "github.com/mesh-intelligence/propedit/internal/cli"

func main() {
	cli.Execute()
}
