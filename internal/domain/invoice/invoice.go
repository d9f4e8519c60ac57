package invoice

import (
	"fmt"
	"time"

	vo "github.com/hakot-io/hakot/internal/domain/invoice/valueobjects"
	sharedvo "github.com/hakot-io/hakot/internal/domain/shared/valueobjects"
	"github.com/hakot-io/hakot/internal/shared/biztime"
	"github.com/hakot-io/hakot/internal/shared/id"
)

// Invoice kinds describe why an invoice was issued.
const (
	KindRegistration = "registration"
	KindRenewal      = "renewal"
	KindReactivation = "reactivation"
)

// Invoice is one billing cycle's charge against a subscription. A
// subscription accumulates invoices over time but at most one unpaid one
// is meaningful at any moment.
type Invoice struct {
	invID          uint
	sid            string
	invoiceNumber  string
	subscriptionID uint
	amount         sharedvo.Money
	lateFees       sharedvo.Money
	dueDate        *time.Time
	status         vo.InvoiceStatus
	kind           string
	notes          *string
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewInvoice creates an unpaid invoice. The invoice number comes from the
// persistence layer's sequence allocator and must already be unique.
func NewInvoice(subscriptionID uint, invoiceNumber string, amount sharedvo.Money, dueDate *time.Time, kind string) (*Invoice, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if invoiceNumber == "" {
		return nil, fmt.Errorf("invoice number is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if kind == "" {
		kind = KindRenewal
	}

	now := biztime.NowUTC()
	return &Invoice{
		sid:            id.MustGenerateWithPrefix(id.PrefixInvoice, id.DefaultLength),
		invoiceNumber:  invoiceNumber,
		subscriptionID: subscriptionID,
		amount:         amount,
		lateFees:       sharedvo.Zero(amount.Currency()),
		dueDate:        dueDate,
		status:         vo.StatusUnpaid,
		kind:           kind,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// InvoiceReconstructParams carries persisted state back into the
// aggregate.
type InvoiceReconstructParams struct {
	ID             uint
	SID            string
	InvoiceNumber  string
	SubscriptionID uint
	Amount         sharedvo.Money
	LateFees       sharedvo.Money
	DueDate        *time.Time
	Status         vo.InvoiceStatus
	Kind           string
	Notes          *string
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReconstructInvoice rebuilds an invoice from persistence.
func ReconstructInvoice(p InvoiceReconstructParams) (*Invoice, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("invoice ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid invoice status: %s", p.Status)
	}

	return &Invoice{
		invID:          p.ID,
		sid:            p.SID,
		invoiceNumber:  p.InvoiceNumber,
		subscriptionID: p.SubscriptionID,
		amount:         p.Amount,
		lateFees:       p.LateFees,
		dueDate:        p.DueDate,
		status:         p.Status,
		kind:           p.Kind,
		notes:          p.Notes,
		version:        p.Version,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (i *Invoice) ID() uint {
	return i.invID
}

func (i *Invoice) SID() string {
	return i.sid
}

func (i *Invoice) InvoiceNumber() string {
	return i.invoiceNumber
}

func (i *Invoice) SubscriptionID() uint {
	return i.subscriptionID
}

func (i *Invoice) Amount() sharedvo.Money {
	return i.amount
}

func (i *Invoice) LateFees() sharedvo.Money {
	return i.lateFees
}

// TotalDue is the amount plus accrued late fees.
func (i *Invoice) TotalDue() sharedvo.Money {
	return i.amount.Add(i.lateFees)
}

func (i *Invoice) DueDate() *time.Time {
	return i.dueDate
}

func (i *Invoice) Status() vo.InvoiceStatus {
	return i.status
}

func (i *Invoice) Kind() string {
	return i.kind
}

func (i *Invoice) Notes() *string {
	return i.notes
}

func (i *Invoice) Version() int {
	return i.version
}

func (i *Invoice) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Invoice) UpdatedAt() time.Time {
	return i.updatedAt
}

// SetID sets the invoice ID after persistence.
func (i *Invoice) SetID(invID uint) {
	i.invID = invID
}

// MarkPaid settles the invoice. Already paid is a no-op; archived
// invoices cannot be settled.
func (i *Invoice) MarkPaid() error {
	if i.status == vo.StatusPaid {
		return nil
	}
	if !i.status.IsSettleable() {
		return fmt.Errorf("cannot mark invoice as paid with status %s", i.status)
	}

	i.status = vo.StatusPaid
	i.updatedAt = biztime.NowUTC()
	i.version++

	return nil
}

// ApplySettlement recomputes the status from the sum of settled payments:
// paid when the sum covers amount plus late fees, partially paid when
// something but not everything has arrived, otherwise unchanged.
func (i *Invoice) ApplySettlement(paidTotal sharedvo.Money) error {
	if i.status == vo.StatusArchived {
		return fmt.Errorf("cannot recompute settlement for archived invoice")
	}

	switch {
	case paidTotal.GreaterThanOrEqual(i.TotalDue()):
		i.status = vo.StatusPaid
	case paidTotal.IsPositive():
		i.status = vo.StatusPartiallyPaid
	default:
		return nil
	}

	i.updatedAt = biztime.NowUTC()
	i.version++

	return nil
}

// MarkOverdue flags an unpaid invoice whose due date has passed.
func (i *Invoice) MarkOverdue() error {
	if i.status == vo.StatusOverdue {
		return nil
	}
	if i.status != vo.StatusUnpaid {
		return fmt.Errorf("cannot mark invoice as overdue with status %s", i.status)
	}
	if i.dueDate == nil || biztime.NowUTC().Before(*i.dueDate) {
		return fmt.Errorf("invoice is not past due")
	}

	i.status = vo.StatusOverdue
	i.updatedAt = biztime.NowUTC()
	i.version++

	return nil
}

// Archive retires a stale unpaid or overdue invoice, appending an audit
// note with the archive date.
func (i *Invoice) Archive(note string) error {
	if i.status == vo.StatusArchived {
		return nil
	}
	if !i.status.IsArchivable() {
		return fmt.Errorf("cannot archive invoice with status %s", i.status)
	}

	now := biztime.NowUTC()
	entry := fmt.Sprintf("%s (archived %s)", note, now.Format("2006-01-02"))
	if i.notes != nil && *i.notes != "" {
		entry = *i.notes + "; " + entry
	}

	i.status = vo.StatusArchived
	i.notes = &entry
	i.updatedAt = now
	i.version++

	return nil
}

// ApplyLateFee accrues a late fee on an unsettled invoice.
func (i *Invoice) ApplyLateFee(fee sharedvo.Money) error {
	if !fee.IsPositive() {
		return fmt.Errorf("late fee must be positive")
	}
	if !i.status.IsSettleable() {
		return fmt.Errorf("cannot apply late fee to invoice with status %s", i.status)
	}

	i.lateFees = i.lateFees.Add(fee)
	i.updatedAt = biztime.NowUTC()
	i.version++

	return nil
}
