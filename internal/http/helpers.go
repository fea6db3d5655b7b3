package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatDollars formats cents as a dollar currency string (e.g., "$12.34").
func formatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	dollars := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(dollars, 10) + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseID parses a positive integer form value.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
