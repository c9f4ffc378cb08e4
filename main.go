package main

import (
	"os"

	"github.com/quillchat/desktop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
