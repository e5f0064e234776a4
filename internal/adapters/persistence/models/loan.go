package models

import "gorm.io/gorm"

// Loan represents emprunts table.
//
// Book and Member are attached by the loan repository for display only;
// they are never written back.
type Loan struct {
	ID                 uint    `gorm:"primaryKey;column:id" json:"id"`
	BookID             uint    `gorm:"column:livre_id;not null" json:"book_id"`
	MemberID           uint    `gorm:"column:membre_id;not null" json:"member_id"`
	LoanDate           string  `gorm:"column:date_emprunt;size:10;not null" json:"loan_date"`
	ExpectedReturnDate string  `gorm:"column:date_retour_prevue;size:10;not null" json:"expected_return_date"`
	ActualReturnDate   *string `gorm:"column:date_retour_reelle;size:10" json:"actual_return_date"`
	Book               *Book   `gorm:"-" json:"book,omitempty"`
	Member             *Member `gorm:"-" json:"member,omitempty"`
}

func (Loan) TableName() string {
	return "emprunts"
}

func (l Loan) Key() uint {
	return l.ID
}

// InProgress reports whether the loan has no return date yet
func (l Loan) InProgress() bool {
	return l.ActualReturnDate == nil || *l.ActualReturnDate == ""
}

// AfterFind folds the empty-string return date into nil
func (l *Loan) AfterFind(tx *gorm.DB) error {
	if l.ActualReturnDate != nil && *l.ActualReturnDate == "" {
		l.ActualReturnDate = nil
	}
	return nil
}
