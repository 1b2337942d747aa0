package main

import (
	"os"

	"github.com/setanarut/boxstack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
