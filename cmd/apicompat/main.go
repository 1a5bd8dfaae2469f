// Package main is the entry point for apicompat, the backward-compatibility
// checker for versioned command definition files.
package main

func main() {
	Execute()
}
