package main

import (
	"fmt"
	"os"

	"github.com/teranos/ctorgen/cmd/ctorgen/commands"
	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
