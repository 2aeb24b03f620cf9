package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded cursor from a ledger entry's processing time and file name.
// Listings are ordered by (processed_at, filename) descending, so the pair is a unique position.
func EncodeToken(processedAt time.Time, filename string) string {
	tokenStr := fmt.Sprintf("%s|%s", processedAt.UTC().Format(timeFormat), filename)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into processing time and file name.
func DecodeToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	// File names may contain the separator, the timestamp never does.
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	processedAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (processed_at parse): %w", err)
	}

	return processedAt, parts[1], nil
}
