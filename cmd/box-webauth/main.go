package main

// @title           Box WebAuth
// @version         1.0
// @description     OAuth2 authorization code flow against Box.

// @BasePath  /
// @schemes   http https

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
