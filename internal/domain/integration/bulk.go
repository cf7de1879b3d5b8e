package integration

import "strings"

// BulkActionType is an admin action over many integrations
type BulkActionType string

const (
	BulkActionEnable  BulkActionType = "enable"
	BulkActionDisable BulkActionType = "disable"
	BulkActionSync    BulkActionType = "sync"
)

// ParseBulkActionType validates s as a BulkActionType
func ParseBulkActionType(s string) (BulkActionType, error) {
	switch t := BulkActionType(strings.ToLower(strings.TrimSpace(s))); t {
	case BulkActionEnable, BulkActionDisable, BulkActionSync:
		return t, nil
	default:
		return "", ErrInvalidBulkAction
	}
}
