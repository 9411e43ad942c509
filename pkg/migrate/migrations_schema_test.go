package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kelvin-saputra/sievo-sub000/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestCatalogMigrationGuardsInventoryQuantities(t *testing.T) {
	assertContains(t, readMigration(t, "create_catalog"), []string{
		"CREATE TABLE IF NOT EXISTS inventories",
		"CHECK (total_qty >= 0)",
		"CHECK (reserved_qty >= 0)",
		"CHECK (reserved_qty <= total_qty)",
		"CHECK (rating >= 0 AND rating <= 5)",
		"DROP TABLE IF EXISTS inventories",
	})
}

func TestBudgetMigrationEnforcesSingleSource(t *testing.T) {
	content := readMigration(t, "create_budgets")
	assertContains(t, content, []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_budgets_event ON budgets (event_id)",
		"ux_budget_item_categories_name",
		"budget_plan_items_single_source",
		"actual_budget_items_single_source",
		"CHECK (status IN ('draft', 'submitted', 'approved', 'closed'))",
		"CHECK (status IN ('pending', 'approved', 'rejected'))",
		"CHECK (status IN ('pending', 'paid', 'cancelled'))",
		"DROP TABLE IF EXISTS budgets",
	})
}

func TestOrganizationMigrationRoles(t *testing.T) {
	assertContains(t, readMigration(t, "create_organizations"), []string{
		"CHECK (role IN ('owner', 'executive', 'manager', 'internal', 'freelance'))",
		"ux_memberships_org_user",
	})
}
