package main

import (
	"os"

	"github.com/shreyas-rp/ChatApp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
