package actions

import (
	"context"
	"testing"

	"github.com/goliatone/go-actions/pkg/testsupport"
)

func TestCreate(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()

	created, err := Create(ctx, db, DefaultConfig(), testsupport.User{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Role:   "admin",
		Status: "active",
	})
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected the primary key to be populated after insert")
	}

	stored, err := Get[testsupport.User](ctx, db, DefaultConfig(),
		GetOptions{Select: Selection{Value: created.ID}, Required: true})
	if err != nil {
		t.Fatalf("expected the created record to be readable, got: %v", err)
	}
	if stored.Email != "ada@example.com" {
		t.Errorf("stored email = %q, want ada@example.com", stored.Email)
	}
}

func TestCreate_DoesNotMutateInput(t *testing.T) {
	db := testsupport.NewDB(t)

	input := testsupport.User{Name: "Ada Lovelace", Email: "ada@example.com"}
	created, err := Create(context.Background(), db, DefaultConfig(), input)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if input.ID != 0 {
		t.Errorf("caller's value must stay untouched, got ID %d", input.ID)
	}
	if created.ID == 0 {
		t.Error("returned record must carry the assigned ID")
	}
}

func TestCreate_NilDB(t *testing.T) {
	_, err := Create(context.Background(), nil, DefaultConfig(), testsupport.User{})
	if !IsConfiguration(err) {
		t.Errorf("expected ConfigurationError but got: %v", err)
	}
}
