package main

import (
	"os"

	"github.com/abdidvp/taxes/internal/adapters/inbound/cli"
)

func main() {
	os.Exit(cli.Execute())
}
