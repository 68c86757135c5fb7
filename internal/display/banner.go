package display

import (
	"fmt"
	"os"

	"github.com/FZU-N/pylle-toolkit/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, `                  ____
 _ __  _ __  _   |___ \ _ __  _ __   __ _
| '_ \| '_ \| | | |__) | '_ \| '_ \ / _`+"`"+` |
| | | | |_) | |_| / __/| |_) | | | | (_| |
|_| |_| .__/ \__, |_____| .__/|_| |_|\__, |
      |_|    |___/       |_|         |___/
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
