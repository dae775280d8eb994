package learning

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the primary key is unset. IDs are minted in
// Go rather than by a database default so the schema migrates on any dialect.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
