package db

import "database/sql"

// DB wraps the shared sql.DB handle so store constructors take a package
// type instead of the raw driver handle.
type DB struct {
	*sql.DB
}
