package main

import (
	"os"

	"github.com/aidancornelius/murmur-engine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
