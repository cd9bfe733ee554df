package page

import "github.com/yanizio/corpsite/internal/database"

// Schema returns the idempotent DDL for the pages table.  parent_id has no
// foreign key: rows may outlive their parent, and the hierarchy builder
// handles the resulting orphans.
func Schema(driver string) []string {
	if driver == database.DriverSQLite {
		return []string{
			`CREATE TABLE IF NOT EXISTS pages (
                id               INTEGER PRIMARY KEY AUTOINCREMENT,
                slug             TEXT     NOT NULL UNIQUE,
                title            TEXT     NOT NULL,
                content          TEXT     NOT NULL DEFAULT '',
                meta_description TEXT     NOT NULL DEFAULT '',
                is_published     BOOLEAN  NOT NULL DEFAULT 0,
                parent_id        INTEGER  NULL,
                sort_order       INTEGER  NOT NULL DEFAULT 0,
                created_at       DATETIME NOT NULL,
                updated_at       DATETIME NOT NULL
            )`,
			`CREATE INDEX IF NOT EXISTS idx_pages_parent ON pages (parent_id)`,
			`CREATE INDEX IF NOT EXISTS idx_pages_order ON pages (sort_order, created_at)`,
		}
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS pages (
            id               BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
            slug             VARCHAR(191) NOT NULL,
            title            VARCHAR(255) NOT NULL,
            content          MEDIUMTEXT   NOT NULL,
            meta_description VARCHAR(512) NOT NULL DEFAULT '',
            is_published     BOOLEAN      NOT NULL DEFAULT FALSE,
            parent_id        BIGINT       NULL,
            sort_order       INT          NOT NULL DEFAULT 0,
            created_at       DATETIME(6)  NOT NULL,
            updated_at       DATETIME(6)  NOT NULL,
            UNIQUE KEY uq_pages_slug (slug),
            KEY idx_pages_parent (parent_id),
            KEY idx_pages_order (sort_order, created_at)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
}
