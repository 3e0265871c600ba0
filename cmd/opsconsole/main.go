// Command opsconsole runs the marketplace operations console.
package main

import "github.com/snapbook/opsconsole/cmd/opsconsole/cmd"

func main() {
	cmd.Execute()
}
