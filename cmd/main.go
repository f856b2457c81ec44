package main

import (
	"os"

	"github.com/miu200521358/hand2smplx/pkg/cli"
)

func main() {
	os.Exit(cli.Execute(cli.RootCmd()))
}
