package main

import (
	"fmt"
	"os"

	tagcatalog "github.com/thrawn01/tag-catalog"
)

func main() {
	if err := tagcatalog.RunCmd(os.Args, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
