// ideagen runs one creativity method against a prompt and prints the ranked
// ideas as JSON.
//
// Usage:
//
//	ideagen run --method=sixHats --lang=ru "reduce food waste in school canteens"
//	echo "a board game about tides" | ideagen run --method=scamper --report
//	ideagen methods
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
