package main

import (
	"fmt"
	"os"

	"github.com/zklinkprotocol/zklink-go-sdk/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		os.Exit(1)
	}
}
