// Package main is the entry point for the mdcmigrate CLI.
package main

import "mdcmigrate.dev/pkg/mdcmigrate/cmd"

func main() {
	cmd.Execute()
}
