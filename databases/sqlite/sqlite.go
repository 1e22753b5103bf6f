package sqlite

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

const dbFile string = "santa_hat_bot.sqlite"

const getCurrentMigration string = `PRAGMA user_version;`
const setCurrentMigration string = `PRAGMA user_version = ?;`

const createCompositeTableIfNotExistsQuery string = `
CREATE TABLE IF NOT EXISTS hat_composites (
id INTEGER NOT NULL PRIMARY KEY,
interaction_id TEXT NOT NULL,
message_id TEXT NOT NULL,
member_id TEXT NOT NULL,
base_width INTEGER NOT NULL,
base_height INTEGER NOT NULL,
scale REAL NOT NULL,
offset_x INTEGER NOT NULL,
offset_y INTEGER NOT NULL,
rotation INTEGER NOT NULL,
created_at DATETIME NOT NULL
);`

const createInteractionIndexIfNotExistsQuery string = `
CREATE INDEX IF NOT EXISTS composite_interaction_index
ON hat_composites(interaction_id);
`

const createMessageIndexIfNotExistsQuery string = `
CREATE INDEX IF NOT EXISTS composite_message_index
ON hat_composites(message_id);
`

const createDefaultSettingsTableIfNotExistsQuery string = `
CREATE TABLE IF NOT EXISTS default_settings (
member_id TEXT NOT NULL PRIMARY KEY,
scale REAL NOT NULL,
offset_x INTEGER NOT NULL,
offset_y INTEGER NOT NULL,
rotation INTEGER NOT NULL
);`

const addCompositeSourceURLColumnQuery string = `
ALTER TABLE hat_composites ADD COLUMN source_image_url TEXT NOT NULL DEFAULT '';
`

type migration struct {
	migrationName  string
	migrationQuery string
}

var migrations = []migration{
	{migrationName: "create hat composite table", migrationQuery: createCompositeTableIfNotExistsQuery},
	{migrationName: "add composite interaction index", migrationQuery: createInteractionIndexIfNotExistsQuery},
	{migrationName: "add composite message index", migrationQuery: createMessageIndexIfNotExistsQuery},
	{migrationName: "create default settings table", migrationQuery: createDefaultSettingsTableIfNotExistsQuery},
	{migrationName: "add composite source url column", migrationQuery: addCompositeSourceURLColumnQuery},
}

func New(ctx context.Context) (*sql.DB, error) {
	filename, err := DBFilename()
	if err != nil {
		return nil, err
	}

	return NewWithFile(ctx, filename)
}

// NewWithFile opens (creating if needed) the database at filename and brings
// its schema up to date.
func NewWithFile(ctx context.Context, filename string) (*sql.DB, error) {
	err := touchDBFile(filename)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}

	err = migrate(ctx, db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var currentMigration int

	row := db.QueryRowContext(ctx, getCurrentMigration)

	err := row.Scan(&currentMigration)
	if err != nil {
		return err
	}

	requiredMigration := len(migrations)

	log.Printf("Current DB version: %v, required DB version: %v\n", currentMigration, requiredMigration)

	if currentMigration < requiredMigration {
		for migrationNum := currentMigration + 1; migrationNum <= requiredMigration; migrationNum++ {
			err = execMigration(ctx, db, migrationNum)
			if err != nil {
				log.Printf("Error running migration %v '%v'\n", migrationNum, migrations[migrationNum-1].migrationName)

				return err
			}
		}
	}

	return nil
}

func execMigration(ctx context.Context, db *sql.DB, migrationNum int) error {
	log.Printf("Running migration %v '%v'\n", migrationNum, migrations[migrationNum-1].migrationName)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	//nolint
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, migrations[migrationNum-1].migrationQuery)
	if err != nil {
		return err
	}

	setQuery := strings.Replace(setCurrentMigration, "?", strconv.Itoa(migrationNum), 1)

	_, err = tx.ExecContext(ctx, setQuery)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	return nil
}

func DBFilename() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return dir + "/" + dbFile, nil
}

func touchDBFile(filename string) error {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		file, createErr := os.Create(filename)
		if createErr != nil {
			return createErr
		}

		closeErr := file.Close()
		if closeErr != nil {
			return closeErr
		}
	}

	return nil
}
