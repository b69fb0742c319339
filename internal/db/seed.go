package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zulandar/taskdeck/internal/models"
	"github.com/zulandar/taskdeck/internal/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// legacyTaskRow mirrors one row of the legacy tasks table. The legacy
// schema names the board column literally "column".
type legacyTaskRow struct {
	ID          uint
	Name        string
	Description sql.NullString
	TaskColumn  sql.NullString
	Assignee    sql.NullString
	CreatedAt   sql.NullString
	UpdatedAt   sql.NullString
}

// SeedFromLegacy performs the one-time import of tasks from a legacy
// sqlite database into target. The import is idempotent (insert-or-ignore
// keyed by id) and runs only when the target tasks table is empty. A
// missing or unreadable legacy source is skipped silently. Returns the
// number of rows imported.
func SeedFromLegacy(target *gorm.DB, legacyPath string) (int, error) {
	var existing int64
	if err := target.Model(&models.Task{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("db: count tasks: %w", err)
	}
	if existing > 0 || legacyPath == "" {
		return 0, nil
	}
	if _, err := os.Stat(legacyPath); err != nil {
		return 0, nil
	}

	source, err := gorm.Open(sqlite.Open(legacyPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return 0, nil
	}

	rows, err := loadLegacyRows(source)
	if err != nil {
		return 0, nil
	}
	if len(rows) == 0 {
		return 0, nil
	}

	imported := 0
	err = target.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			createdAt := parseLegacyTime(row.CreatedAt)
			updatedAt := createdAt
			if row.UpdatedAt.Valid {
				updatedAt = parseLegacyTime(row.UpdatedAt)
			}

			t := models.Task{
				ID:        row.ID,
				Name:      row.Name,
				Column:    task.NormalizeColumn(nullableString(row.TaskColumn)),
				Assignee:  legacyAssignee(row.Assignee),
				Metadata:  "{}",
				CreatedAt: createdAt,
				UpdatedAt: updatedAt,
			}
			if desc := strings.TrimSpace(nullableString(row.Description)); desc != "" {
				t.Description = &desc
			}

			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&t)
			if result.Error != nil {
				return fmt.Errorf("db: import legacy task %d: %w", row.ID, result.Error)
			}
			imported += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// loadLegacyRows reads all live tasks from the legacy database, filtering
// archived rows when the legacy schema carries an archived column.
func loadLegacyRows(source *gorm.DB) ([]legacyTaskRow, error) {
	where := ""
	if hasColumn(source, "tasks", "archived") {
		where = "WHERE archived = 0"
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, "column" AS task_column, assignee, created_at, updated_at
		FROM tasks
		%s
		ORDER BY id ASC
	`, where)

	var rows []legacyTaskRow
	if err := source.Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// hasColumn reports whether table has the named column.
func hasColumn(db *gorm.DB, table, column string) bool {
	var cols []struct{ Name string }
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", table)).Scan(&cols).Error; err != nil {
		return false
	}
	for _, c := range cols {
		if c.Name == column {
			return true
		}
	}
	return false
}

var legacyTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseLegacyTime parses a legacy timestamp string, falling back to now
// when the value is null or unparseable.
func parseLegacyTime(value sql.NullString) time.Time {
	if value.Valid {
		for _, layout := range legacyTimeLayouts {
			if ts, err := time.Parse(layout, strings.TrimSpace(value.String)); err == nil {
				return ts.UTC()
			}
		}
	}
	return time.Now().UTC()
}

func nullableString(value sql.NullString) string {
	if value.Valid {
		return value.String
	}
	return ""
}

func legacyAssignee(value sql.NullString) string {
	if s := strings.TrimSpace(nullableString(value)); s != "" {
		return s
	}
	return "Unassigned"
}
