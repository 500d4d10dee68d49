package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/buahsegar/storefront-backend/pkg/config"
	"github.com/buahsegar/storefront-backend/pkg/db"
	"github.com/buahsegar/storefront-backend/pkg/db/models"
	"github.com/buahsegar/storefront-backend/pkg/enums"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:products_%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewService(ServiceParams{Repo: NewRepository(client.DB())})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validInput() ProductInput {
	return ProductInput{
		Name:        "Mangga Harum Manis",
		Description: "Mangga matang pohon, manis dan harum.",
		Category:    enums.CategoryLocal.String(),
		Price:       25000,
		Stock:       40,
		ImageURL:    "https://img.example/mangga.jpg",
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if created.Category != enums.CategoryLocal {
		t.Fatalf("expected category %q, got %q", enums.CategoryLocal, created.Category)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != created.Name || got.Price != 25000 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestListFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	local := validInput()
	imported := validInput()
	imported.Name = "Kiwi Zespri"
	imported.Category = enums.CategoryImported.String()

	if _, err := svc.Create(ctx, local); err != nil {
		t.Fatalf("create local: %v", err)
	}
	if _, err := svc.Create(ctx, imported); err != nil {
		t.Fatalf("create imported: %v", err)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	filtered, err := svc.List(ctx, enums.CategoryImported.String())
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Kiwi Zespri" {
		t.Fatalf("unexpected filter result: %+v", filtered)
	}

	if _, err := svc.List(ctx, "Sayur"); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestValidationRejectsEachFieldIndependently(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		field  string
		mutate func(*ProductInput)
	}{
		{"name", func(in *ProductInput) { in.Name = "  " }},
		{"description", func(in *ProductInput) { in.Description = "" }},
		{"category", func(in *ProductInput) { in.Category = "Sayur Segar" }},
		{"price", func(in *ProductInput) { in.Price = 0 }},
		{"stock", func(in *ProductInput) { in.Stock = -1 }},
		{"image_url", func(in *ProductInput) { in.ImageURL = "not-a-url" }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			_, err := svc.Create(ctx, input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			details, ok := typed.Details().(map[string]string)
			if !ok {
				t.Fatalf("expected field details, got %T", typed.Details())
			}
			if details[tc.field] == "" {
				t.Fatalf("expected a message for %q, got %v", tc.field, details)
			}
			if len(details) != 1 {
				t.Fatalf("only %q should fail, got %v", tc.field, details)
			}
		})
	}
}

func TestUpdateReplacesFullDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	next := validInput()
	next.Name = "Mangga Gedong Gincu"
	next.Price = 32000
	next.Stock = 12
	next.Category = enums.CategoryImported.String()

	updated, err := svc.Update(ctx, created.ID, next)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != next.Name || updated.Price != 32000 || updated.Stock != 12 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Category != enums.CategoryImported {
		t.Fatalf("expected category replaced, got %q", updated.Category)
	}

	if _, err := svc.Update(ctx, uuid.New(), next); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for repeated delete, got %v", err)
	}
}
