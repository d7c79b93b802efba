// Command dialdesk-cli runs bulk imports, prints templates, mints tokens and migrates the schema
package main

import (
	"os"

	"dialdesk/internal/platform/config"
)

func main() {
	config.LoadDotEnv()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
