// Package main is the entry point for the kvcat CLI binary.
package main

import "os"

func main() {
	os.Exit(Execute())
}
