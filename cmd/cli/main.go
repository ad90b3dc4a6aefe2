// Command sentry-cli administers a code-sentry installation.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
