package subject

import (
	"context"
	"testing"

	"github.com/elimuhub/elimu/core/week"
	inmemkv "github.com/elimuhub/elimu/storage/kvstore/inmem"
)

func setup(t *testing.T) (*Service, *week.Service) {
	t.Helper()
	kv := inmemkv.Open()
	weekSvc := week.NewService(kv)
	return NewService(kv, weekSvc), weekSvc
}

func TestService_CreateAndQuery(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, NewSubject{Name: "Maths", Description: "Numbers"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if sub.ID == "" {
		t.Fatal("Create() returned empty ID")
	}

	subjects, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	var seen int
	for _, s := range subjects {
		if s.ID == sub.ID {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("created subject listed %d times; want exactly once", seen)
	}
}

func TestService_Delete_cascades(t *testing.T) {
	svc, weekSvc := setup(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, NewSubject{Name: "Maths"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	other, err := svc.Create(ctx, NewSubject{Name: "Science"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if _, err := weekSvc.Create(ctx, week.NewWeek{SubjectID: sub.ID, WeekNumber: i, Title: "Week"}); err != nil {
			t.Fatalf("creating week failed: %v", err)
		}
	}
	kept, err := weekSvc.Create(ctx, week.NewWeek{SubjectID: other.ID, WeekNumber: 1, Title: "Kept"})
	if err != nil {
		t.Fatalf("creating week failed: %v", err)
	}

	if err := svc.Delete(ctx, sub.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := svc.GetByID(ctx, sub.ID); err != ErrNotFound {
		t.Errorf("GetByID() err = %v; want ErrNotFound", err)
	}
	weeks, err := weekSvc.QueryBySubject(ctx, sub.ID)
	if err != nil {
		t.Fatalf("QueryBySubject() failed: %v", err)
	}
	if len(weeks) != 0 {
		t.Errorf("len(weeks) = %d after cascade; want 0", len(weeks))
	}

	// the other subject's weeks survive
	otherWeeks, err := weekSvc.QueryBySubject(ctx, other.ID)
	if err != nil {
		t.Fatalf("QueryBySubject() failed: %v", err)
	}
	if len(otherWeeks) != 1 || otherWeeks[0].ID != kept.ID {
		t.Errorf("other subject's weeks = %+v; want the kept week only", otherWeeks)
	}
}

func TestService_Delete_missingSubject(t *testing.T) {
	svc, _ := setup(t)

	if err := svc.Delete(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("Delete() err = %v; want ErrNotFound", err)
	}
}
