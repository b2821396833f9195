package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned, wrapped, whenever a lookup matches no row.
var ErrNotFound = errors.New("not found")

func wrapFind(err error, what string, key interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, key, ErrNotFound)
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}
