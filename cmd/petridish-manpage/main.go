package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/petridish/cmd/petridish"
	"github.com/spf13/cobra/doc"
)

func main() {
	if err := doc.GenMan(petridish.NewRootCmd(), petridish.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
