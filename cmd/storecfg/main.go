package main

import (
	"fmt"
	"os"
)

// version can be set during build with -ldflags
var version = "dev"

func main() {
	cmd := newRootCmd()
	cmd.Version = version
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
