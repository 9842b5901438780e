// Command wrapped plays a music recap as a retro terminal slideshow.
package main

import (
	"fmt"
	"os"

	"github.com/retrowrapped/wrapped/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
