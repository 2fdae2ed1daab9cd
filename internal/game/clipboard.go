package game

import "github.com/atotto/clipboard"

// copyToClipboard puts s on the system clipboard.
func copyToClipboard(s string) error {
	if s == "" {
		s = " "
	}
	return clipboard.WriteAll(s)
}
