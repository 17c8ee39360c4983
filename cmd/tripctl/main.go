// Command tripctl runs trip board imports and maintenance from the shell
// against the same store the API server uses.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
