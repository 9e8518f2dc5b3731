package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/reoring/dtobj"
)

func main() {
	cfg, err := parseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		if errors.Is(err, dtobj.ErrInvalidState) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
