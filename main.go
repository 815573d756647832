// Package main is the foam-sizer command.
package main

import "foam-sizer/internal/cli"

func main() {
	cli.Execute()
}
