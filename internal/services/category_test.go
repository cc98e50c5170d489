package services

import (
	"context"
	"errors"
	"testing"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/repos/testutil"
)

func TestCategoryService_ListFieldsReturnsChildrenOfDegree(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := NewCategoryService(tx, log, repos.NewCategoryRepo(tx, log))
	ctx := context.Background()

	degree, field := testutil.SeedCategoryPair(t, tx)

	fields, err := svc.ListFields(ctx, degree.ID)
	if err != nil {
		t.Fatalf("ListFields failed: %v", err)
	}
	if len(fields) != 1 || fields[0].ID != field.ID {
		t.Fatalf("expected field %d, got %+v", field.ID, fields)
	}
}

func TestCategoryService_ListFieldsRejectsFieldAsDegree(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := NewCategoryService(tx, log, repos.NewCategoryRepo(tx, log))
	ctx := context.Background()

	_, field := testutil.SeedCategoryPair(t, tx)

	_, err := svc.ListFields(ctx, field.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found for non-degree id, got %v", err)
	}
}

func TestCategoryService_ListDegreesReturnsRootsOnly(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	svc := NewCategoryService(tx, log, repos.NewCategoryRepo(tx, log))
	ctx := context.Background()

	degree, field := testutil.SeedCategoryPair(t, tx)

	degrees, err := svc.ListDegrees(ctx)
	if err != nil {
		t.Fatalf("ListDegrees failed: %v", err)
	}
	foundDegree := false
	for _, d := range degrees {
		if d.ID == field.ID {
			t.Fatalf("field %d must not appear among degrees", field.ID)
		}
		if d.ID == degree.ID {
			foundDegree = true
		}
	}
	if !foundDegree {
		t.Fatalf("expected degree %d in list", degree.ID)
	}
}
