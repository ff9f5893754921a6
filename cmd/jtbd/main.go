package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/jtbd/internal/cli"
	"github.com/ppiankov/jtbd/internal/model"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, model.ErrNoResearchData) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
