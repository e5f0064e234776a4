package models

// Book represents livres table
type Book struct {
	ID              uint   `gorm:"primaryKey;column:id" json:"id"`
	Title           string `gorm:"column:titre;size:255;not null" json:"title"`
	Author          string `gorm:"column:auteur;size:255;not null" json:"author"`
	ISBN            string `gorm:"column:isbn;size:20;uniqueIndex;not null" json:"isbn"`
	PublicationYear int    `gorm:"column:annee_publication" json:"publication_year"`
	Publisher       string `gorm:"column:editeur;size:255" json:"publisher"`
	Available       bool   `gorm:"column:disponible" json:"available"`
}

func (Book) TableName() string {
	return "livres"
}

func (b Book) Key() uint {
	return b.ID
}
