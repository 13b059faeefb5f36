package main

import (
	"os"

	"github.com/blacktop/inpost/cmd"
	"github.com/blacktop/inpost/internal/logutil"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logutil.Errorf("%v", err)
		os.Exit(1)
	}
}
