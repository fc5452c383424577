package main

import (
	"os"

	"github.com/arthur-debert/petridish/cmd/petridish"
)

func main() {
	os.Exit(petridish.Execute(petridish.NewRootCmd()))
}
