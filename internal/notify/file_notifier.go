package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileNotifier implements the Notifier interface by appending push content to a file.
type FileNotifier struct {
	filePath string
}

// NewFileNotifier creates a new FileNotifier.
// It ensures the directory for the log file exists.
func NewFileNotifier(filePath string) (Notifier, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("push log file path cannot be empty")
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for push log file '%s': %w", dir, err)
	}

	return &FileNotifier{filePath: filePath}, nil
}

// Notify writes each push to the configured file.
func (n *FileNotifier) Notify(ctx context.Context, pushes []Push) error {
	file, err := os.OpenFile(n.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("FileNotifier: Failed to open log file '%s': %v", n.filePath, err)
		return fmt.Errorf("failed to open push log file: %w", err)
	}
	defer file.Close()

	timestamp := time.Now().Format(time.RFC3339Nano)
	var b strings.Builder
	for _, p := range pushes {
		fmt.Fprintf(&b, "--- Push Logged at %s (To: %s) ---\n", timestamp, p.RescuerID)
		fmt.Fprintf(&b, "Title: %s\nBody: %s\nData: %v\n", p.Title, p.Body, p.Data)
		b.WriteString("--- End Logged Push ---\n\n")
	}

	if _, err := file.WriteString(b.String()); err != nil {
		log.Printf("FileNotifier: Failed to write to log file '%s': %v", n.filePath, err)
		return fmt.Errorf("failed to write push to log file: %w", err)
	}
	return nil
}
