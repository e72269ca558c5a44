package main

import (
	"os"

	"github.com/tsavowest/ai-interviewer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
