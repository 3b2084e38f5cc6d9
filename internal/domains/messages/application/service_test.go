package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pawledger/registry-api/internal/domains/messages/adapters/memory"
	msgtypes "github.com/pawledger/registry-api/internal/domains/messages/application/types"
	"github.com/pawledger/registry-api/internal/domains/messages/domain"
	"github.com/pawledger/registry-api/internal/shared/identity"
	"github.com/pawledger/registry-api/internal/shared/query"
)

var admin = identity.Caller{Subject: "admin-1", Role: identity.RoleAdmin}

func newMessageService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return NewService(repo), repo
}

func submit(t *testing.T, svc *Service, name, email, subject string) *domain.Message {
	t.Helper()
	message, err := svc.Submit(context.Background(), msgtypes.SubmitInput{
		Name:    name,
		Email:   email,
		Subject: subject,
		Body:    "We never received the certificate for our dog.",
	})
	require.NoError(t, err)
	return message
}

func TestSubmit_StartsAsNew(t *testing.T) {
	svc, _ := newMessageService(t)

	message := submit(t, svc, "Dana Walker", "dana@example.com", "Missing certificate")
	require.Equal(t, domain.StatusNew, message.Status)
	require.NotEmpty(t, message.ID)

	_, err := svc.Submit(context.Background(), msgtypes.SubmitInput{
		Name:  "No Address",
		Email: "not-an-email",
		Body:  "hello",
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), msgtypes.SubmitInput{
		Name:  "Empty",
		Email: "empty@example.com",
		Body:  "   ",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetStatus_AnyKnownStatusIsReachable(t *testing.T) {
	svc, _ := newMessageService(t)
	ctx := context.Background()
	message := submit(t, svc, "Dana Walker", "dana@example.com", "Missing certificate")

	// The inbox has no transition table: closed back to unread is fine.
	for _, status := range []string{"read", "replied", "closed", "unread"} {
		updated, err := svc.SetStatus(ctx, msgtypes.SetStatusInput{
			Caller:    admin,
			MessageID: message.ID,
			Status:    status,
		})
		require.NoError(t, err)
		require.Equal(t, domain.Status(status), updated.Status)
	}

	_, err := svc.SetStatus(ctx, msgtypes.SetStatusInput{
		Caller:    admin,
		MessageID: message.ID,
		Status:    "archived",
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SetStatus(ctx, msgtypes.SetStatusInput{
		MessageID: message.ID,
		Status:    "read",
	})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestSetStatus_StampsUpdatedAt(t *testing.T) {
	repo := memory.NewRepository()
	later := time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, WithClock(func() time.Time { return later }))

	message := submit(t, svc, "Dana Walker", "dana@example.com", "Missing certificate")
	updated, err := svc.SetStatus(context.Background(), msgtypes.SetStatusInput{
		Caller:    admin,
		MessageID: message.ID,
		Status:    "read",
	})
	require.NoError(t, err)
	require.Equal(t, later, updated.UpdatedAt)
}

func TestAssignAndNotes(t *testing.T) {
	svc, _ := newMessageService(t)
	ctx := context.Background()
	message := submit(t, svc, "Dana Walker", "dana@example.com", "Missing certificate")

	assigned, err := svc.Assign(ctx, msgtypes.AssignInput{
		Caller:     admin,
		MessageID:  message.ID,
		AssignedTo: "admin-2",
	})
	require.NoError(t, err)
	require.Equal(t, "admin-2", assigned.AssignedTo)

	unassigned, err := svc.Assign(ctx, msgtypes.AssignInput{Caller: admin, MessageID: message.ID})
	require.NoError(t, err)
	require.Empty(t, unassigned.AssignedTo)

	noted, err := svc.SetAdminNotes(ctx, msgtypes.SetNotesInput{
		Caller:    admin,
		MessageID: message.ID,
		Notes:     "refund issued",
	})
	require.NoError(t, err)
	require.Equal(t, "refund issued", noted.AdminNotes)
}

func TestList_FiltersAndSearches(t *testing.T) {
	svc, _ := newMessageService(t)
	ctx := context.Background()

	first := submit(t, svc, "Dana Walker", "dana@example.com", "Missing certificate")
	submit(t, svc, "Riley Fox", "riley@example.com", "Renewal question")
	submit(t, svc, "Sam Bright", "sam@example.com", "Refund request")

	_, err := svc.SetStatus(ctx, msgtypes.SetStatusInput{Caller: admin, MessageID: first.ID, Status: "closed"})
	require.NoError(t, err)

	page, err := svc.List(ctx, msgtypes.ListInput{Caller: admin, Status: "closed"})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, first.ID, page.Data[0].ID)

	page, err = svc.List(ctx, msgtypes.ListInput{Caller: admin, Page: query.PageRequest{Search: "RILEY"}})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "Riley Fox", page.Data[0].Name)

	_, err = svc.List(ctx, msgtypes.ListInput{Caller: admin, Status: "archived"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(ctx, msgtypes.ListInput{})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestListRecent_NewestFirst(t *testing.T) {
	repo := memory.NewRepository()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc := NewService(repo, WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))

	submit(t, svc, "First", "first@example.com", "a")
	submit(t, svc, "Second", "second@example.com", "b")
	submit(t, svc, "Third", "third@example.com", "c")

	recent, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "Third", recent[0].Name)
	require.Equal(t, "Second", recent[1].Name)
}
