package equipment

import (
	"database/sql"
	"fmt"
	"time"
)

// Equipment is a medical device tracked by clinical engineering.
type Equipment struct {
	ID           int64
	Name         string
	AssetTag     string         // patrimônio
	SerialNumber sql.NullString // not every device has one registered
	Location     sql.NullString // sector or room
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref is the human-readable reference used in alerts and reports.
func (e *Equipment) Ref() string {
	if e.AssetTag == "" {
		return e.Name
	}
	return fmt.Sprintf("%s (%s)", e.Name, e.AssetTag)
}
