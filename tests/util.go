package testutil

import (
	"context"
	"testing"

	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/subject"
	"github.com/elimuhub/elimu/core/user"
	"github.com/elimuhub/elimu/core/week"
)

// CreateAccount signs an account up with the provider and creates its profile.
func CreateAccount(
	t *testing.T,
	provider identity.Provider,
	profileSvc *user.Service,
	email, name, pwd, role string,
) user.Profile {
	t.Helper()
	ctx := context.Background()

	acct, err := provider.SignUp(ctx, email, pwd, name)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	prof, err := profileSvc.Create(ctx, acct.ID, acct.Email, acct.Name, role)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return prof
}

func CreateSubject(t *testing.T, svc *subject.Service, name, description string) subject.Subject {
	t.Helper()

	sub, err := svc.Create(context.Background(), subject.NewSubject{Name: name, Description: description})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func CreateWeek(
	t *testing.T,
	svc *week.Service,
	subjectID string,
	weekNumber int,
	title string,
	published bool,
) week.Week {
	t.Helper()

	wk, err := svc.Create(context.Background(), week.NewWeek{
		SubjectID:  subjectID,
		WeekNumber: weekNumber,
		Title:      title,
		Published:  published,
	})
	if err != nil {
		t.Fatalf("CreateWeek() failed: %v", err)
	}
	return wk
}
