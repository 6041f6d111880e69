package model

import "time"

type RecentLoan struct {
	ID         int        `json:"id"`
	BookID     int        `json:"bookId"`
	BookTitle  string     `json:"bookTitle"`
	UserID     int        `json:"userId"`
	UserName   string     `json:"userName"`
	BorrowedAt time.Time  `json:"borrowedAt"`
	DueAt      time.Time  `json:"dueAt"`
	ReturnedAt *time.Time `json:"returnedAt"`
	Status     LoanStatus `json:"status"`
}

type DashboardStats struct {
	TotalBooks      int          `json:"totalBooks"`
	AvailableCopies int          `json:"availableCopies"`
	ActiveLoans     int          `json:"activeLoans"`
	OverdueLoans    int          `json:"overdueLoans"`
	TotalStudents   int          `json:"totalStudents"`
	RecentLoans     []RecentLoan `json:"recentLoans"`
}

type ReportRange struct {
	Start time.Time
	End   time.Time
}

type ReportRequest struct {
	StartDate string `query:"start_date" json:"start_date" validate:"omitempty,date"`
	EndDate   string `query:"end_date" json:"end_date" validate:"omitempty,date"`
}

type NameValue struct {
	Name  string `json:"name" db:"name"`
	Value int    `json:"value" db:"value"`
}

type TrendPoint struct {
	Date    string `json:"date" db:"day"`
	Borrows int    `json:"borrows" db:"borrows"`
	Returns int    `json:"returns" db:"returns"`
}

type TitleCount struct {
	Title string `json:"title" db:"title"`
	Count int    `json:"count" db:"count"`
}

type Report struct {
	StartDate        string         `json:"startDate"`
	EndDate          string         `json:"endDate"`
	TotalBooks       int            `json:"totalBooks"`
	AvailableBooks   int            `json:"availableBooks"`
	BorrowedBooks    int            `json:"borrowedBooks"`
	TotalBorrows     int            `json:"totalBorrows"`
	BooksByCategory  []NameValue    `json:"booksByCategory"`
	BorrowingTrends  []TrendPoint   `json:"borrowingTrends"`
	TopBorrowedBooks []TitleCount   `json:"topBorrowedBooks"`
	OverdueBooks     []BorrowRecord `json:"overdueBooks"`
	TotalFines       float64        `json:"totalFines"`
	CollectedFines   float64        `json:"collectedFines"`
}
