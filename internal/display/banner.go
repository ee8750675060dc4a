package display

import (
	"fmt"
	"os"

	"github.com/backmassage/facturado/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Cyan if colors are enabled.
func PrintBanner() {
	if logging.Cyan != "" {
		fmt.Fprint(os.Stdout, logging.Cyan)
	}
	fmt.Fprint(os.Stdout, ` _____          _                        _
|  ___|_ _  ___| |_ _   _ _ __ __ _  __| | ___
| |_ / _`+"`"+` |/ __| __| | | | '__/ _`+"`"+` |/ _`+"`"+` |/ _ \
|  _| (_| | (__| |_| |_| | | | (_| | (_| | (_) |
|_|  \__,_|\___|\__|\__,_|_|  \__,_|\__,_|\___/
`)
	if logging.Cyan != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
