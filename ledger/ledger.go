// Package ledger implements the balance-mutation protocol shared by the
// transaction journal and the EMI schedules: lock the parent row, validate
// against the locked balances, then rewrite paid/due (or received/pending) as
// one atomic unit with the causing journal or EMI write.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/yourusername/realty-books/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Business-rule rejections. Handlers map these to 400 responses.
var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrAlreadySettled    = errors.New("ledger is already fully paid")
	ErrExceedsDue        = errors.New("amount exceeds the due amount")
	ErrNothingToReverse  = errors.New("no paid amount to reverse")
)

// Epsilon absorbs 2-decimal rounding when comparing monetary amounts.
var Epsilon = decimal.New(1, -2) // 0.01

// Postable rejects a new posting of amount against a ledger with the given
// due balance. Both "already fully paid" and "more than due" are hard
// rejections, not clamps.
func Postable(due, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	if due.LessThanOrEqual(decimal.Zero) {
		return ErrAlreadySettled
	}
	if amount.GreaterThan(due.Add(Epsilon)) {
		return ErrExceedsDue
	}
	return nil
}

// withLock adds SELECT ... FOR UPDATE on dialects that support it. SQLite
// has a single writer, so the clause is skipped there.
func withLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockProperty loads a non-deleted property under an exclusive row lock.
// Every balance check against the property must read from the row returned
// here, inside the same transaction, or concurrent postings can validate
// against stale balances.
func LockProperty(tx *gorm.DB, id uint) (*models.Property, error) {
	var p models.Property
	if err := withLock(tx).Where("is_deleted = ?", false).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LockSale loads a non-deleted sale deal under an exclusive row lock.
func LockSale(tx *gorm.DB, id uint) (*models.SellProperty, error) {
	var s models.SellProperty
	if err := withLock(tx).Where("is_deleted = ?", false).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// apply recomputes a paid/due pair after a signed delta. Paid is clamped at
// zero so reversals cannot drive it negative; due is clamped at zero so
// rounding overpayment is absorbed rather than rejected.
func apply(total, paid, delta decimal.Decimal) (newPaid, newDue decimal.Decimal) {
	newPaid = paid.Add(delta)
	if newPaid.IsNegative() {
		newPaid = decimal.Zero
	}
	newDue = total.Sub(newPaid)
	if newDue.IsNegative() {
		newDue = decimal.Zero
	}
	return newPaid.Round(2), newDue.Round(2)
}

// ApplyPropertyDelta applies a signed cash delta (positive = more paid) to a
// locked property row and persists the new balances.
func ApplyPropertyDelta(tx *gorm.DB, p *models.Property, delta decimal.Decimal) error {
	p.PaidAmount, p.DueAmount = apply(p.TotalAmount, p.PaidAmount, delta)
	return tx.Model(&models.Property{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"paid_amount": p.PaidAmount,
			"due_amount":  p.DueAmount,
		}).Error
}

// ApplySaleDelta applies a signed cash delta (positive = more received) to a
// locked sale row and persists the new balances.
func ApplySaleDelta(tx *gorm.DB, s *models.SellProperty, delta decimal.Decimal) error {
	s.ReceivedAmount, s.PendingAmount = apply(s.TotalSaleAmount, s.ReceivedAmount, delta)
	return tx.Model(&models.SellProperty{}).Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"received_amount": s.ReceivedAmount,
			"pending_amount":  s.PendingAmount,
		}).Error
}
