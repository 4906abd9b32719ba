package main

import (
	"os"

	"github.com/jrsteele09/go-erp-gateway/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
