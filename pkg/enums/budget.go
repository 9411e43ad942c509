package enums

import "slices"

// BudgetStatus is the approval lifecycle of an event budget.
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusSubmitted BudgetStatus = "submitted"
	BudgetStatusApproved  BudgetStatus = "approved"
	BudgetStatusClosed    BudgetStatus = "closed"
)

var validBudgetStatuses = []BudgetStatus{
	BudgetStatusDraft,
	BudgetStatusSubmitted,
	BudgetStatusApproved,
	BudgetStatusClosed,
}

var budgetTransitions = map[BudgetStatus][]BudgetStatus{
	BudgetStatusDraft:     {BudgetStatusSubmitted},
	BudgetStatusSubmitted: {BudgetStatusApproved, BudgetStatusDraft},
	BudgetStatusApproved:  {BudgetStatusClosed},
}

func (s BudgetStatus) String() string {
	return string(s)
}

func (s BudgetStatus) IsValid() bool {
	return slices.Contains(validBudgetStatuses, s)
}

func (s BudgetStatus) CanTransitionTo(next BudgetStatus) bool {
	return slices.Contains(budgetTransitions[s], next)
}

// PlanEditable reports whether plan items may change under this status.
func (s BudgetStatus) PlanEditable() bool {
	return s == BudgetStatusDraft || s == BudgetStatusSubmitted
}

// ActualEditable reports whether actual items may change under this status.
func (s BudgetStatus) ActualEditable() bool {
	return s != BudgetStatusClosed
}

func ParseBudgetStatus(value string) (BudgetStatus, error) {
	return parse(validBudgetStatuses, value, "budget status")
}

// PlanItemStatus is the review state of a planned budget line.
type PlanItemStatus string

const (
	PlanItemStatusPending  PlanItemStatus = "pending"
	PlanItemStatusApproved PlanItemStatus = "approved"
	PlanItemStatusRejected PlanItemStatus = "rejected"
)

var validPlanItemStatuses = []PlanItemStatus{
	PlanItemStatusPending,
	PlanItemStatusApproved,
	PlanItemStatusRejected,
}

func (s PlanItemStatus) IsValid() bool {
	return slices.Contains(validPlanItemStatuses, s)
}

// HoldsReservation reports whether an inventory-sourced plan item in this
// status keeps its quantity reserved.
func (s PlanItemStatus) HoldsReservation() bool {
	return s != PlanItemStatusRejected
}

func ParsePlanItemStatus(value string) (PlanItemStatus, error) {
	return parse(validPlanItemStatuses, value, "plan item status")
}

// ActualItemStatus is the payment state of a realised expense.
type ActualItemStatus string

const (
	ActualItemStatusPending   ActualItemStatus = "pending"
	ActualItemStatusPaid      ActualItemStatus = "paid"
	ActualItemStatusCancelled ActualItemStatus = "cancelled"
)

var validActualItemStatuses = []ActualItemStatus{
	ActualItemStatusPending,
	ActualItemStatusPaid,
	ActualItemStatusCancelled,
}

func (s ActualItemStatus) IsValid() bool {
	return slices.Contains(validActualItemStatuses, s)
}

func ParseActualItemStatus(value string) (ActualItemStatus, error) {
	return parse(validActualItemStatuses, value, "actual item status")
}

// BudgetSourceType names the catalog a budget line is priced from.
type BudgetSourceType string

const (
	BudgetSourceInventory     BudgetSourceType = "inventory"
	BudgetSourceVendorService BudgetSourceType = "vendor_service"
	BudgetSourcePurchasing    BudgetSourceType = "purchasing"
)

var validBudgetSourceTypes = []BudgetSourceType{
	BudgetSourceInventory,
	BudgetSourceVendorService,
	BudgetSourcePurchasing,
}

func (s BudgetSourceType) IsValid() bool {
	return slices.Contains(validBudgetSourceTypes, s)
}

func ParseBudgetSourceType(value string) (BudgetSourceType, error) {
	return parse(validBudgetSourceTypes, value, "budget source type")
}
