package repository

import (
	"strings"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func dialectDB(d gorm.Dialector) *gorm.DB {
	return &gorm.DB{Config: &gorm.Config{Dialector: d}}
}

func TestClaimQueryLockClauseFollowsLimit(t *testing.T) {
	for _, d := range []gorm.Dialector{
		postgres.New(postgres.Config{}),
		mysql.New(mysql.Config{}),
	} {
		query := claimQuery(dialectDB(d))
		lockAt := strings.Index(query, "FOR UPDATE SKIP LOCKED")
		limitAt := strings.Index(query, "LIMIT ?")
		if lockAt == -1 {
			t.Fatalf("%s claim query should lock claimed rows:\n%s", d.Name(), query)
		}
		if lockAt < limitAt {
			t.Fatalf("%s locking clause must follow LIMIT:\n%s", d.Name(), query)
		}
	}
}

func TestClaimQuerySqliteHasNoLockClause(t *testing.T) {
	query := claimQuery(dialectDB(sqlite.Open("file::memory:")))
	if strings.Contains(query, "FOR UPDATE") {
		t.Fatalf("sqlite claim query must not lock:\n%s", query)
	}
}
