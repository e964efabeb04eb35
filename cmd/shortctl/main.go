// Command shortctl manages links from the terminal against the same stores
// the server uses.
package main

import "github.com/spf13/cobra"

func main() {
	cobra.CheckErr(newRootCmd().Execute())
}
