package main

import (
	"os"

	"github.com/davenportd/scribe/pkg/cmd/root"
)

func main() {
	os.Exit(root.Execute())
}
