package models

import (
	"fmt"

	"github.com/google/uuid"
)

func GenerateSessionID() string {
	return uuid.New().String()
}

func GeneratePlayerID() string {
	return uuid.New().String()
}

func FormatCurrency(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
