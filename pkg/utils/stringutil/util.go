/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package stringutil

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeKey converts a string to lowercase, trims whitespace, and
// replaces spaces and hyphens with underscores. Registry lookups use the
// normalized form so "Bambu PLA" and "bambu-pla" resolve to the same key.
func NormalizeKey(str string) string {
	if str == "" {
		return ""
	}
	str = strings.ToLower(strings.TrimSpace(str))
	str = strings.ReplaceAll(str, " ", "_")
	str = strings.ReplaceAll(str, "-", "_")
	return str
}

// StrCaseEqual compares two strings case-insensitively
func StrCaseEqual(str1, str2 string) bool {
	return strings.EqualFold(str1, str2)
}

// IsNumber checks if a string can be converted to an integer
func IsNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// ConvertToString converts various types to string representation
func ConvertToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return ""
	}
}

// Split splits a string by the given separator and trims whitespace from each part.
// Empty strings after trimming are filtered out from the result.
func Split(str, sep string) []string {
	if len(str) == 0 {
		return nil
	}
	strList := strings.Split(str, sep)
	var result []string
	for _, s := range strList {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		result = append(result, s)
	}
	return result
}
