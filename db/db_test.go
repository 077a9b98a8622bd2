package db

import (
	"path/filepath"
	"testing"

	"github.com/Divy2003/realstate/model"
)

// testDB opens a migrated database under a per-test temp directory.
func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testProject(title, status string) model.Project {
	amount := 180000.0
	return model.Project{
		Title:       title,
		Description: "Test project description",
		Status:      status,
		Category:    model.CategoryResidential,
		Location:    model.Location{City: "Pune"},
		Price:       &model.Price{Amount: &amount},
		Image:       "cover.jpg",
	}
}

func testLead(email string) model.Lead {
	return model.Lead{
		Name:    "Asha Rao",
		Email:   email,
		Phone:   "9876543210",
		Message: "Interested in a 2BHK",
	}
}
