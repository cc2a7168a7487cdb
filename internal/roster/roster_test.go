package roster

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/db"
)

// testEnv creates a fresh database and a config whose allowed paths include a
// scratch directory for roster files and reports.
func testEnv(t *testing.T) (*sql.DB, *config.Config, string) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}
	return database, cfg, dir
}

// scenarioCSV is the fixture roster: Ana, John, Ben, and Alex.
const scenarioCSV = `ut_eid,name,courses,confidence_level,availability,email,topics_need,study_life,work_hours
aavila,Ana,"CS313E,GOV310",1,Mon3pm;Tue10am,ana.avila@utexas.edu,Heaps,quiet,4
jsmith,John,"CS313E,M408C",5,Mon3pm;Wed4pm,john.smith@utexas.edu,"Heaps,Trees",quiet,6
bchen,Ben,"CS313E,M408C",3,Fri1pm,ben.chen@utexas.edu,Trees,group,3
ajones,Alex,"CS313E,GOV310,PHI301",4,Tue10am;Wed4pm,alex.jones@utexas.edu,Heaps,quiet,4
`

// writeRoster writes CSV content into dir and returns the file path.
func writeRoster(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	return path
}

// seedScenario imports the fixture roster.
func seedScenario(t *testing.T, database *sql.DB, cfg *config.Config, dir string) {
	t.Helper()
	path := writeRoster(t, dir, "roster.csv", scenarioCSV)
	out, err := Import(database, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 4 {
		t.Fatalf("Imported = %d, want 4 (errors: %v)", out.Imported, out.Errors)
	}
}

func intPtr(n int) *int { return &n }
