package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kbukum/localstt/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if isUsageError(err) {
			fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
		}
		os.Exit(1)
	}
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
