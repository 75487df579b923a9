// Package all registers every snapshot mirror backend with internal/storage.
package all

import (
	_ "github.com/KooshaS/top-soccer-matches/internal/storage/mssql"
	_ "github.com/KooshaS/top-soccer-matches/internal/storage/postgres"
	_ "github.com/KooshaS/top-soccer-matches/internal/storage/sqlite"
)
