// Package validation checks user-supplied paths and options.
package validation

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// IsValidPath checks if a given path exists and is a file or a directory.
func IsValidPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsValidInputFile checks that path is an existing regular file.
func IsValidInputFile(path string) error {
	if err := IsValidPath(path); err != nil {
		return err
	}
	if info, _ := os.Stat(path); info.IsDir() {
		return fmt.Errorf("input must be a file, got directory: %s", path)
	}
	return nil
}

// IsValidInputDir checks that path is an existing directory.
func IsValidInputDir(path string) error {
	if err := IsValidPath(path); err != nil {
		return err
	}
	if info, _ := os.Stat(path); !info.IsDir() {
		return fmt.Errorf("input must be a directory, got file: %s", path)
	}
	return nil
}

// IsValidFormat checks that format is one of supported.
func IsValidFormat(format string, supported []string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported format: %s. Supported formats are '%s'", format, strings.Join(supported, "', '"))
}

// IsValidDelimiter checks that delimiter is exactly one usable rune.
func IsValidDelimiter(delimiter string) error {
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("delimiter %q cannot be used in CSV", delimiter)
	}
	return nil
}
