package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copy writes text to the system clipboard
func Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
