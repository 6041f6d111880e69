package model

import (
	"math"
	"time"
)

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "borrowed"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
)

type BookSummary struct {
	ID         int    `json:"book_id"`
	Title      string `json:"title"`
	ISBN       string `json:"isbn"`
	Author     Ref    `json:"author"`
	Publisher  Ref    `json:"publisher"`
	Categories []Ref  `json:"categories,omitempty"`
}

type UserRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type BorrowRecord struct {
	ID            int          `json:"id"`
	UserID        int          `json:"user_id"`
	BookID        int          `json:"book_id"`
	BorrowedAt    time.Time    `json:"borrowed_at"`
	DueAt         time.Time    `json:"due_at"`
	ReturnedAt    *time.Time   `json:"returned_at"`
	FineAmount    float64      `json:"fine_amount"`
	Status        LoanStatus   `json:"status"`
	TotalPaid     float64      `json:"total_paid"`
	Balance       float64      `json:"balance"`
	DisplayStatus LoanStatus   `json:"display_status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Book          *BookSummary `json:"book,omitempty"`
	User          *UserRef     `json:"user,omitempty"`
}

func (r BorrowRecord) IsOpen() bool {
	return r.ReturnedAt == nil
}

// Derive fills the computed fields of a record as seen at now.
func (r *BorrowRecord) Derive(now time.Time) {
	r.Balance = RoundCents(r.FineAmount - r.TotalPaid)
	r.DisplayStatus = LoanDisplayStatus(r.ReturnedAt, r.DueAt, now)
}

func LoanDisplayStatus(returnedAt *time.Time, dueAt, now time.Time) LoanStatus {
	switch {
	case returnedAt != nil:
		return LoanReturned
	case now.After(dueAt):
		return LoanOverdue
	default:
		return LoanBorrowed
	}
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type BorrowRequest struct {
	BookID int `json:"book_id" validate:"required,gt=0"`
}

// NewBorrow is a loan about to be opened.
type NewBorrow struct {
	UserID     int
	BookID     int
	BorrowedAt time.Time
	DueAt      time.Time
}

// ReturnScope narrows which open record a return may close.
// A zero OwnerID means any owner (staff returns).
type ReturnScope struct {
	RecordID int
	OwnerID  int
}

type FinePayment struct {
	ID             int       `json:"id" db:"id"`
	BorrowRecordID int       `json:"borrow_record_id" db:"borrow_record_id"`
	Amount         float64   `json:"amount" db:"amount"`
	PaidAt         time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type FinePaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gte=0.01"`
}

type BorrowResponse struct {
	Message string       `json:"message"`
	Data    BorrowRecord `json:"data"`
}

type LoanEventType string

const (
	EventBorrowed LoanEventType = "borrowed"
	EventReturned LoanEventType = "returned"
	EventFinePaid LoanEventType = "fine_paid"
)

type LoanEvent struct {
	EventType  LoanEventType `json:"event_type" db:"event_type"`
	RecordID   int           `json:"record_id" db:"record_id"`
	UserID     int           `json:"user_id" db:"user_id"`
	BookID     int           `json:"book_id" db:"book_id"`
	Amount     float64       `json:"amount" db:"amount"`
	OccurredAt time.Time     `json:"occurred_at" db:"occurred_at"`
}

type BorrowFilter struct {
	UserID         int
	OpenOnly       bool
	OverdueAt      *time.Time
	WithCategories bool
	Limit          uint64
}
