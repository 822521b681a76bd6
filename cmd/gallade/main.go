// Command gallade resolves Maven-style JVM dependencies into a lockfile
// backed by a content-addressed local artifact cache.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
