package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
)

func (s *Service) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, req model.AuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, req)
}

func (s *Service) UpdateAuthor(ctx context.Context, id int, req model.AuthorRequest) (model.Author, error) {
	return s.repo.UpdateAuthor(ctx, id, req)
}

func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	return s.repo.DeleteAuthor(ctx, id)
}

func (s *Service) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	return s.repo.ListPublishers(ctx)
}

func (s *Service) GetPublisher(ctx context.Context, id int) (model.Publisher, error) {
	return s.repo.GetPublisher(ctx, id)
}

func (s *Service) CreatePublisher(ctx context.Context, req model.PublisherRequest) (model.Publisher, error) {
	return s.repo.CreatePublisher(ctx, req)
}

func (s *Service) UpdatePublisher(ctx context.Context, id int, req model.PublisherRequest) (model.Publisher, error) {
	return s.repo.UpdatePublisher(ctx, id, req)
}

func (s *Service) DeletePublisher(ctx context.Context, id int) error {
	return s.repo.DeletePublisher(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id int) (model.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, req model.CategoryRequest) (model.Category, error) {
	if err := s.checkParent(ctx, 0, req.ParentID); err != nil {
		return model.Category{}, err
	}
	return s.repo.CreateCategory(ctx, req)
}

func (s *Service) UpdateCategory(ctx context.Context, id int, req model.CategoryRequest) (model.Category, error) {
	if err := s.checkParent(ctx, id, req.ParentID); err != nil {
		return model.Category{}, err
	}
	return s.repo.UpdateCategory(ctx, id, req)
}

func (s *Service) checkParent(ctx context.Context, self int, parentID *int) error {
	if parentID == nil {
		return nil
	}
	if *parentID == self {
		return errs.NewValidation("parent_id", "A category cannot be its own parent.")
	}
	missing, err := s.repo.MissingIDs(ctx, repository.CategoriesTable, []int{*parentID})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errs.NewValidation("parent_id", "The selected parent id is invalid.")
	}
	return nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookView, error) {
	books, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]model.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, b.View())
	}
	return views, nil
}

func (s *Service) GetBook(ctx context.Context, id int) (model.BookView, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.BookView{}, err
	}
	return book.View(), nil
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.BookView, error) {
	if err := s.checkBook(ctx, req); err != nil {
		return model.BookView{}, err
	}
	id, err := s.repo.CreateBook(ctx, req)
	if err != nil {
		return model.BookView{}, err
	}
	return s.GetBook(ctx, id)
}

// UpdateBook replaces every column; omitted copy counts become 0.
func (s *Service) UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.BookView, error) {
	if err := s.checkBook(ctx, req); err != nil {
		return model.BookView{}, err
	}
	if err := s.repo.UpdateBook(ctx, id, req); err != nil {
		return model.BookView{}, err
	}
	return s.GetBook(ctx, id)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) BookFormData(ctx context.Context) (model.BookFormData, error) {
	return s.repo.BookFormData(ctx)
}

// checkBook enforces the rules the validator cannot: references must exist
// and available copies may not exceed the total.
func (s *Service) checkBook(ctx context.Context, req model.BookRequest) error {
	v := new(errs.ValidationError)
	total, available := req.Copies()
	if available > total {
		v.Add("available_copies", "The available copies may not be greater than total copies.")
	}
	refs := []struct {
		table, field string
		id           *int
	}{
		{repository.AuthorsTable, "author_id", req.AuthorID},
		{repository.PublishersTable, "publisher_id", req.PublisherID},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		missing, err := s.repo.MissingIDs(ctx, ref.table, []int{*ref.id})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			v.Add(ref.field, fmt.Sprintf("The selected %s is invalid.", strings.ReplaceAll(ref.field, "_", " ")))
		}
	}
	if len(req.Categories) > 0 {
		missing, err := s.repo.MissingIDs(ctx, repository.CategoriesTable, req.Categories)
		if err != nil {
			return err
		}
		bad := make(map[int]bool, len(missing))
		for _, id := range missing {
			bad[id] = true
		}
		for i, id := range req.Categories {
			if bad[id] {
				field := fmt.Sprintf("categories.%d", i)
				v.Add(field, fmt.Sprintf("The selected %s is invalid.", field))
			}
		}
	}
	return v.OrNil()
}
