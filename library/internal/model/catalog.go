package model

import "time"

// Ref is the {id, name} shape used for related records in book payloads.
type Ref struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
}

const unknownName = "Unknown"

func NewRef(id *int, name *string) Ref {
	if id == nil || name == nil {
		return Ref{ID: id, Name: unknownName}
	}
	return Ref{ID: id, Name: *name}
}

type Author struct {
	ID          int       `json:"author_id" db:"author_id"`
	Name        string    `json:"name" db:"name"`
	Bio         *string   `json:"bio" db:"bio"`
	Nationality *string   `json:"nationality" db:"nationality"`
	BirthDate   *string   `json:"birth_date" db:"birth_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	BookCount   int       `json:"book_count" db:"book_count"`
}

type AuthorRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Bio         *string `json:"bio"`
	Nationality *string `json:"nationality" validate:"omitempty,max=100"`
	BirthDate   *string `json:"birth_date" validate:"omitempty,date"`
}

type Publisher struct {
	ID          int       `json:"publisher_id" db:"publisher_id"`
	Name        string    `json:"name" db:"name"`
	Address     *string   `json:"address" db:"address"`
	ContactInfo *string   `json:"contact_info" db:"contact_info"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type PublisherRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Address     *string `json:"address"`
	ContactInfo *string `json:"contact_info"`
}

type Category struct {
	ID          int       `json:"category_id" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	ParentID    *int      `json:"parent_id" db:"parent_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	BookCount   int       `json:"book_count" db:"book_count"`
}

type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	ParentID    *int    `json:"parent_id" validate:"omitempty,gt=0"`
}

type BookStatus string

const (
	BookAvailable   BookStatus = "Available"
	BookLowStock    BookStatus = "Low Stock"
	BookUnavailable BookStatus = "Unavailable"
)

func StatusOf(availableCopies int) BookStatus {
	switch {
	case availableCopies <= 0:
		return BookUnavailable
	case availableCopies <= 2:
		return BookLowStock
	default:
		return BookAvailable
	}
}

type Book struct {
	ID              int       `db:"book_id"`
	Title           string    `db:"title"`
	ISBN            *string   `db:"isbn"`
	AuthorID        *int      `db:"author_id"`
	AuthorName      *string   `db:"author_name"`
	PublisherID     *int      `db:"publisher_id"`
	PublisherName   *string   `db:"publisher_name"`
	PublicationYear *int      `db:"publication_year"`
	Edition         *string   `db:"edition"`
	TotalCopies     int       `db:"total_copies"`
	AvailableCopies int       `db:"available_copies"`
	Location        *string   `db:"location_in_library"`
	Description     *string   `db:"description"`
	CoverImage      *string   `db:"cover_image"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	Categories      []Ref     `db:"-"`
}

func (b Book) Status() BookStatus {
	return StatusOf(b.AvailableCopies)
}

type BookView struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	ISBN            string     `json:"isbn"`
	PublicationYear *int       `json:"publicationYear"`
	Author          Ref        `json:"author"`
	Publisher       Ref        `json:"publisher"`
	Categories      []Ref      `json:"categories"`
	Status          BookStatus `json:"status"`
	Copies          int        `json:"copies"`
	Available       int        `json:"available"`
	Location        *string    `json:"location"`
	Description     *string    `json:"description"`
	Edition         *string    `json:"edition"`
	CoverImage      *string    `json:"cover_image"`
}

func (b Book) View() BookView {
	isbn := ""
	if b.ISBN != nil {
		isbn = *b.ISBN
	}
	categories := b.Categories
	if categories == nil {
		categories = []Ref{}
	}
	return BookView{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            isbn,
		PublicationYear: b.PublicationYear,
		Author:          NewRef(b.AuthorID, b.AuthorName),
		Publisher:       NewRef(b.PublisherID, b.PublisherName),
		Categories:      categories,
		Status:          b.Status(),
		Copies:          b.TotalCopies,
		Available:       b.AvailableCopies,
		Location:        b.Location,
		Description:     b.Description,
		Edition:         b.Edition,
		CoverImage:      b.CoverImage,
	}
}

type BookRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	ISBN            *string `json:"isbn" validate:"omitempty,max=20"`
	AuthorID        *int    `json:"author_id" validate:"omitempty,gt=0"`
	PublisherID     *int    `json:"publisher_id" validate:"omitempty,gt=0"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,min=1000,maxyear=1"`
	TotalCopies     *int    `json:"total_copies" validate:"omitempty,min=0"`
	AvailableCopies *int    `json:"available_copies" validate:"omitempty,min=0"`
	Categories      []int   `json:"categories" validate:"omitempty,dive,gt=0"`
	Description     *string `json:"description"`
	Location        *string `json:"location_in_library" validate:"omitempty,max=100"`
	Edition         *string `json:"edition" validate:"omitempty,max=50"`
	CoverImage      *string `json:"cover_image" validate:"omitempty,max=2048"`
}

func (r BookRequest) Copies() (total, available int) {
	if r.TotalCopies != nil {
		total = *r.TotalCopies
	}
	if r.AvailableCopies != nil {
		available = *r.AvailableCopies
	}
	return total, available
}

type BookFilter struct {
	Search     string
	CategoryID int
}

type AuthorOption struct {
	ID   int    `json:"author_id" db:"id"`
	Name string `json:"name" db:"name"`
}

type PublisherOption struct {
	ID   int    `json:"publisher_id" db:"id"`
	Name string `json:"name" db:"name"`
}

type CategoryOption struct {
	ID   int    `json:"category_id" db:"id"`
	Name string `json:"name" db:"name"`
}

// BookFormData feeds the select boxes of the book editor.
type BookFormData struct {
	Authors    []AuthorOption    `json:"authors"`
	Publishers []PublisherOption `json:"publishers"`
	Categories []CategoryOption  `json:"categories"`
}
