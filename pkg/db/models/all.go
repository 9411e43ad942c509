package models

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Organization{},
		&Membership{},
		&Contact{},
		&Event{},
		&Task{},
		&EventAssignment{},
		&Inventory{},
		&VendorService{},
		&Purchasing{},
		&Budget{},
		&BudgetItemCategory{},
		&BudgetPlanItem{},
		&ActualBudgetItem{},
		&Proposal{},
		&Notification{},
	}
}
