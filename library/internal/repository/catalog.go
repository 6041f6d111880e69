package repository

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	sq "github.com/Masterminds/squirrel"
)

const (
	authorNotFound    = "Author not found"
	publisherNotFound = "Publisher not found"
	categoryNotFound  = "Category not found"
)

func authorSelect() sq.SelectBuilder {
	return qb.Select(
		"a.author_id", "a.name", "a.bio", "a.nationality",
		"to_char(a.birth_date, 'YYYY-MM-DD') as birth_date",
		"a.created_at",
		"(select count(*) from books b where b.author_id = a.author_id) as book_count",
	).From(AuthorsTable + " a")
}

func birthDate(v *string) interface{} {
	if v == nil {
		return nil
	}
	return sq.Expr("to_date(?, 'YYYY-MM-DD')", *v)
}

func (r *repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return collect[model.Author](ctx, r.db, authorSelect().OrderBy("a.name"))
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return collectOne[model.Author](ctx, r.db, authorSelect().Where(sq.Eq{"a.author_id": id}), authorNotFound)
}

func (r *repository) CreateAuthor(ctx context.Context, req model.AuthorRequest) (model.Author, error) {
	id, err := scalar[int](ctx, r.db, qb.Insert(AuthorsTable).
		Columns("name", "bio", "nationality", "birth_date").
		Values(req.Name, req.Bio, req.Nationality, birthDate(req.BirthDate)).
		Suffix("returning author_id"))
	if err != nil {
		return model.Author{}, mapPgErr(err)
	}
	return r.GetAuthor(ctx, id)
}

func (r *repository) UpdateAuthor(ctx context.Context, id int, req model.AuthorRequest) (model.Author, error) {
	n, err := exec(ctx, r.db, qb.Update(AuthorsTable).
		Set("name", req.Name).
		Set("bio", req.Bio).
		Set("nationality", req.Nationality).
		Set("birth_date", birthDate(req.BirthDate)).
		Where(sq.Eq{"author_id": id}))
	if err != nil {
		return model.Author{}, err
	}
	if n == 0 {
		return model.Author{}, errs.NewNotFound(authorNotFound)
	}
	return r.GetAuthor(ctx, id)
}

func (r *repository) DeleteAuthor(ctx context.Context, id int) error {
	return r.deleteByID(ctx, AuthorsTable, id, authorNotFound)
}

func (r *repository) deleteByID(ctx context.Context, table string, id int, notFound string) error {
	n, err := exec(ctx, r.db, qb.Delete(table).Where(sq.Eq{idColumns[table]: id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NewNotFound(notFound)
	}
	return nil
}

var publisherColumns = []string{"publisher_id", "name", "address", "contact_info", "created_at"}

func (r *repository) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	return collect[model.Publisher](ctx, r.db,
		qb.Select(publisherColumns...).From(PublishersTable).OrderBy("name"))
}

func (r *repository) GetPublisher(ctx context.Context, id int) (model.Publisher, error) {
	return collectOne[model.Publisher](ctx, r.db,
		qb.Select(publisherColumns...).From(PublishersTable).Where(sq.Eq{"publisher_id": id}),
		publisherNotFound)
}

func (r *repository) CreatePublisher(ctx context.Context, req model.PublisherRequest) (model.Publisher, error) {
	return collectOne[model.Publisher](ctx, r.db, qb.Insert(PublishersTable).
		Columns("name", "address", "contact_info").
		Values(req.Name, req.Address, req.ContactInfo).
		Suffix("returning publisher_id, name, address, contact_info, created_at"),
		publisherNotFound)
}

func (r *repository) UpdatePublisher(ctx context.Context, id int, req model.PublisherRequest) (model.Publisher, error) {
	return collectOne[model.Publisher](ctx, r.db, qb.Update(PublishersTable).
		Set("name", req.Name).
		Set("address", req.Address).
		Set("contact_info", req.ContactInfo).
		Where(sq.Eq{"publisher_id": id}).
		Suffix("returning publisher_id, name, address, contact_info, created_at"),
		publisherNotFound)
}

func (r *repository) DeletePublisher(ctx context.Context, id int) error {
	return r.deleteByID(ctx, PublishersTable, id, publisherNotFound)
}

func categorySelect() sq.SelectBuilder {
	return qb.Select(
		"c.category_id", "c.name", "c.description", "c.parent_id", "c.created_at",
		"(select count(*) from book_categories bc where bc.category_id = c.category_id) as book_count",
	).From(CategoriesTable + " c")
}

func (r *repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	return collect[model.Category](ctx, r.db, categorySelect().OrderBy("c.name"))
}

func (r *repository) GetCategory(ctx context.Context, id int) (model.Category, error) {
	return collectOne[model.Category](ctx, r.db, categorySelect().Where(sq.Eq{"c.category_id": id}), categoryNotFound)
}

func (r *repository) CreateCategory(ctx context.Context, req model.CategoryRequest) (model.Category, error) {
	id, err := scalar[int](ctx, r.db, qb.Insert(CategoriesTable).
		Columns("name", "description", "parent_id").
		Values(req.Name, req.Description, req.ParentID).
		Suffix("returning category_id"))
	if err != nil {
		return model.Category{}, mapPgErr(err)
	}
	return r.GetCategory(ctx, id)
}

func (r *repository) UpdateCategory(ctx context.Context, id int, req model.CategoryRequest) (model.Category, error) {
	n, err := exec(ctx, r.db, qb.Update(CategoriesTable).
		Set("name", req.Name).
		Set("description", req.Description).
		Set("parent_id", req.ParentID).
		Where(sq.Eq{"category_id": id}))
	if err != nil {
		return model.Category{}, err
	}
	if n == 0 {
		return model.Category{}, errs.NewNotFound(categoryNotFound)
	}
	return r.GetCategory(ctx, id)
}

func (r *repository) DeleteCategory(ctx context.Context, id int) error {
	return r.deleteByID(ctx, CategoriesTable, id, categoryNotFound)
}
