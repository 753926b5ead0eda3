package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== PARSING ====================

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight timestamp.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

// ==================== INVOICE NUMBER ====================

// FormatInvoiceNumber renders the human invoice number for a day and its sequence.
// Format: HD-ddMMyyyy-000001
func FormatInvoiceNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("HD-%s-%06d", day.Format("02012006"), seq)
}
