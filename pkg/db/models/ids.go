package models

import "github.com/google/uuid"

// ensureID assigns a random UUID when the primary key is still zero. Postgres
// would do it through gen_random_uuid(), but sqlite-backed tests need it client side.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
