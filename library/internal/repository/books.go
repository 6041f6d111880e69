package repository

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const bookNotFound = "Book not found"

func bookSelect() sq.SelectBuilder {
	return qb.Select(
		"b.book_id", "b.title", "b.isbn",
		"b.author_id", "a.name as author_name",
		"b.publisher_id", "p.name as publisher_name",
		"b.publication_year", "b.edition", "b.total_copies", "b.available_copies",
		"b.location_in_library", "b.description", "b.cover_image", "b.created_at", "b.updated_at",
	).
		From(booksTableName + " b").
		LeftJoin(AuthorsTable + " a on a.author_id = b.author_id").
		LeftJoin(PublishersTable + " p on p.publisher_id = b.publisher_id")
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := bookSelect().OrderBy("b.title", "b.book_id")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(sq.Or{sq.ILike{"b.title": pattern}, sq.ILike{"b.isbn": pattern}})
	}
	if filter.CategoryID > 0 {
		q = q.Where(sq.Expr("exists (select 1 from book_categories bc where bc.book_id = b.book_id and bc.category_id = ?)",
			filter.CategoryID))
	}
	books, err := collect[model.Book](ctx, r.db, q)
	if err != nil {
		return nil, errors.Wrap(err, "ListBooks")
	}
	if err := r.attachCategories(ctx, r.db, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	return r.getBook(ctx, r.db, id)
}

func (r *repository) getBook(ctx context.Context, q querier, id int) (model.Book, error) {
	book, err := collectOne[model.Book](ctx, q, bookSelect().Where(sq.Eq{"b.book_id": id}), bookNotFound)
	if err != nil {
		return model.Book{}, err
	}
	books := []model.Book{book}
	if err := r.attachCategories(ctx, q, books); err != nil {
		return model.Book{}, err
	}
	return books[0], nil
}

type bookCategory struct {
	BookID     int    `db:"book_id"`
	CategoryID int    `db:"category_id"`
	Name       string `db:"name"`
}

func (r *repository) attachCategories(ctx context.Context, q querier, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	byBook, err := categoriesByBook(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range books {
		books[i].Categories = byBook[books[i].ID]
	}
	return nil
}

func categoriesByBook(ctx context.Context, q querier, bookIDs []int) (map[int][]model.Ref, error) {
	rows, err := collect[bookCategory](ctx, q, qb.Select("bc.book_id", "c.category_id", "c.name").
		From(bookCategoriesTableName+" bc").
		Join(CategoriesTable+" c on c.category_id = bc.category_id").
		Where(sq.Eq{"bc.book_id": bookIDs}).
		OrderBy("c.name"))
	if err != nil {
		return nil, errors.Wrap(err, "categoriesByBook")
	}
	byBook := make(map[int][]model.Ref, len(bookIDs))
	for _, row := range rows {
		id := row.CategoryID
		byBook[row.BookID] = append(byBook[row.BookID], model.Ref{ID: &id, Name: row.Name})
	}
	return byBook, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.BookRequest) (int, error) {
	total, available := req.Copies()
	var id int
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		id, err = scalar[int](ctx, tx, qb.Insert(booksTableName).
			Columns("title", "isbn", "author_id", "publisher_id", "publication_year", "edition",
				"total_copies", "available_copies", "location_in_library", "description", "cover_image").
			Values(req.Title, req.ISBN, req.AuthorID, req.PublisherID, req.PublicationYear, req.Edition,
				total, available, req.Location, req.Description, req.CoverImage).
			Suffix("returning book_id"))
		if err != nil {
			return mapPgErr(err)
		}
		return setCategories(ctx, tx, id, req.Categories)
	})
	if err != nil {
		return 0, errors.Wrap(err, "CreateBook")
	}
	return id, nil
}

// UpdateBook replaces the category set only when req.Categories is non-nil.
func (r *repository) UpdateBook(ctx context.Context, id int, req model.BookRequest) error {
	total, available := req.Copies()
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		n, err := exec(ctx, tx, qb.Update(booksTableName).
			SetMap(map[string]interface{}{
				"title":               req.Title,
				"isbn":                req.ISBN,
				"author_id":           req.AuthorID,
				"publisher_id":        req.PublisherID,
				"publication_year":    req.PublicationYear,
				"edition":             req.Edition,
				"total_copies":        total,
				"available_copies":    available,
				"location_in_library": req.Location,
				"description":         req.Description,
				"cover_image":         req.CoverImage,
				"updated_at":          sq.Expr("now()"),
			}).
			Where(sq.Eq{"book_id": id}))
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.NewNotFound(bookNotFound)
		}
		if req.Categories == nil {
			return nil
		}
		if _, err := exec(ctx, tx, qb.Delete(bookCategoriesTableName).Where(sq.Eq{"book_id": id})); err != nil {
			return err
		}
		return setCategories(ctx, tx, id, req.Categories)
	})
}

func setCategories(ctx context.Context, tx pgx.Tx, bookID int, categories []int) error {
	if len(categories) == 0 {
		return nil
	}
	q := qb.Insert(bookCategoriesTableName).Columns("book_id", "category_id").Suffix("on conflict do nothing")
	for _, c := range categories {
		q = q.Values(bookID, c)
	}
	_, err := exec(ctx, tx, q)
	return err
}

func (r *repository) DeleteBook(ctx context.Context, id int) error {
	n, err := exec(ctx, r.db, qb.Delete(booksTableName).Where(sq.Eq{"book_id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NewNotFound(bookNotFound)
	}
	return nil
}

func (r *repository) BookFormData(ctx context.Context) (model.BookFormData, error) {
	var (
		data model.BookFormData
		err  error
	)
	if data.Authors, err = collect[model.AuthorOption](ctx, r.db,
		qb.Select("author_id as id", "name").From(AuthorsTable).OrderBy("name")); err != nil {
		return data, errors.Wrap(err, "authors")
	}
	if data.Publishers, err = collect[model.PublisherOption](ctx, r.db,
		qb.Select("publisher_id as id", "name").From(PublishersTable).OrderBy("name")); err != nil {
		return data, errors.Wrap(err, "publishers")
	}
	if data.Categories, err = collect[model.CategoryOption](ctx, r.db,
		qb.Select("category_id as id", "name").From(CategoriesTable).OrderBy("name")); err != nil {
		return data, errors.Wrap(err, "categories")
	}
	return data, nil
}
