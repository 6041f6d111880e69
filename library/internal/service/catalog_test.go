package service_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestService_CreateBookChecksReferences(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)
	req := model.BookRequest{
		Title:           "Dune",
		AuthorID:        intPtr(1),
		PublisherID:     intPtr(2),
		TotalCopies:     intPtr(2),
		AvailableCopies: intPtr(3),
		Categories:      []int{5, 6},
	}
	repo.EXPECT().MissingIDs(gomock.Any(), repository.AuthorsTable, []int{1}).Return(nil, nil)
	repo.EXPECT().MissingIDs(gomock.Any(), repository.PublishersTable, []int{2}).Return([]int{2}, nil)
	repo.EXPECT().MissingIDs(gomock.Any(), repository.CategoriesTable, []int{5, 6}).Return([]int{6}, nil)

	_, err := svc.CreateBook(context.Background(), req)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, map[string][]string{
		"available_copies": {"The available copies may not be greater than total copies."},
		"publisher_id":     {"The selected publisher id is invalid."},
		"categories.1":     {"The selected categories.1 is invalid."},
	}, verr.Fields)
}

func TestService_CreateBook(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)
	req := model.BookRequest{Title: "Dune", TotalCopies: intPtr(5), AvailableCopies: intPtr(5)}
	repo.EXPECT().CreateBook(gomock.Any(), req).Return(11, nil)
	repo.EXPECT().GetBook(gomock.Any(), 11).Return(model.Book{ID: 11, Title: "Dune", TotalCopies: 5, AvailableCopies: 5}, nil)

	view, err := svc.CreateBook(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 11, view.ID)
	require.Equal(t, model.BookAvailable, view.Status)
	require.Equal(t, "Unknown", view.Author.Name)
	require.NotNil(t, view.Categories)
}

func TestService_CategoryParent(t *testing.T) {
	t.Parallel()
	svc, repo, _, _ := newService(t)

	_, err := svc.UpdateCategory(context.Background(), 3, model.CategoryRequest{Name: "SF", ParentID: intPtr(3)})
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "parent_id")

	repo.EXPECT().MissingIDs(gomock.Any(), repository.CategoriesTable, []int{9}).Return([]int{9}, nil)
	_, err = svc.CreateCategory(context.Background(), model.CategoryRequest{Name: "SF", ParentID: intPtr(9)})
	require.ErrorAs(t, err, &verr)

	repo.EXPECT().MissingIDs(gomock.Any(), repository.CategoriesTable, []int{1}).Return(nil, nil)
	repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(model.Category{ID: 4, Name: "SF", ParentID: intPtr(1)}, nil)
	cat, err := svc.CreateCategory(context.Background(), model.CategoryRequest{Name: "SF", ParentID: intPtr(1)})
	require.NoError(t, err)
	require.Equal(t, 4, cat.ID)
}
