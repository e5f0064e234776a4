package models

// Member represents membres table
type Member struct {
	ID               uint   `gorm:"primaryKey;column:id" json:"id"`
	LastName         string `gorm:"column:nom;size:100;not null" json:"last_name"`
	FirstName        string `gorm:"column:prenom;size:100;not null" json:"first_name"`
	Email            string `gorm:"column:email;size:255" json:"email"`
	Phone            string `gorm:"column:telephone;size:20" json:"phone"`
	Address          string `gorm:"column:adresse;size:255" json:"address"`
	RegistrationDate string `gorm:"column:date_inscription;size:10" json:"registration_date"`
}

func (Member) TableName() string {
	return "membres"
}

func (m Member) Key() uint {
	return m.ID
}

// FullName returns "first last"
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
