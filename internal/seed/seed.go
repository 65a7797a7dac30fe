// Package seed loads the demo accounts and starter catalog used for local
// development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/smartpos/backoffice/internal/auth"
	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/domain"
	"github.com/smartpos/backoffice/internal/repository"
)

var demoUsers = []struct {
	name  string
	email string
	role  auth.Role
}{
	{"Ava Admin", "admin@smartpos.local", auth.RoleStoreAdministrator},
	{"Max Manager", "manager@smartpos.local", auth.RoleManager},
	{"Edie Editor", "editor@smartpos.local", auth.RoleEditor},
	{"Cass Cashier", "cashier@smartpos.local", auth.RoleCashier},
	{"Vic Viewer", "viewer@smartpos.local", auth.RoleViewer},
}

// Run upserts the demo accounts and, when the catalog is empty, creates the
// starter category and product through the regular services so their version
// ledgers look like real writes.
func Run(ctx context.Context, users *repository.UserRepository, categories *catalog.CategoryService, products *catalog.ProductService) error {
	for _, u := range demoUsers {
		// Existing accounts keep their locally edited name and role.
		if _, err := users.FindByEmail(ctx, u.email); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check user %s: %w", u.email, err)
		}
		user := domain.NewUser(u.name, u.email, string(u.role))
		if err := users.Upsert(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	existing, err := categories.List(ctx)
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("[seed] catalog not empty, skipping demo data")
		return nil
	}

	category, err := categories.Create(ctx, catalog.RawInput{
		"name":        "Beverages",
		"code":        "BEV",
		"description": "Hot and cold drinks",
	}, domain.SystemActor)
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	if _, err := products.Create(ctx, catalog.RawInput{
		"name":     "Organic Espresso Beans (500g)",
		"sku":      "ESP-500",
		"category": category.ID.String(),
		"price":    12.5,
		"cost":     7.8,
		"stock":    40,
		"tags":     "coffee, organic",
	}, domain.SystemActor); err != nil {
		return fmt.Errorf("seed product: %w", err)
	}

	log.Printf("[seed] demo data loaded")
	return nil
}
