package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/admin/store"
	"hacklabconnect/internal/platform/metrics"
	usersservice "hacklabconnect/internal/users/service"
	usersstore "hacklabconnect/internal/users/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

type recordingRevoker struct {
	revoked []id.UserID
	fail    error
}

func (r *recordingRevoker) RevokeUser(_ context.Context, userID id.UserID) error {
	if r.fail != nil {
		return r.fail
	}
	r.revoked = append(r.revoked, userID)
	return nil
}

func newTestService() (*Service, *usersservice.Service, *recordingRevoker) {
	users := usersservice.New(usersstore.NewInMemory(), slog.New(slog.DiscardHandler),
		metrics.NewWith(prometheus.NewRegistry()))
	revoker := &recordingRevoker{}
	svc := New(store.NewInMemory(), users, revoker, slog.New(slog.DiscardHandler))
	return svc, users, revoker
}

func TestReportLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	reporter := id.UserID(uuid.New())
	admin := id.UserID(uuid.New())

	report, err := svc.CreateReport(ctx, reporter, "post:abc", "spam")
	require.NoError(t, err)
	assert.Equal(t, "open", report.Status)

	resolved, err := svc.ResolveReport(ctx, report.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "resolved", resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, admin, *resolved.ResolvedBy)

	// Re-resolving keeps the original resolver.
	again, err := svc.ResolveReport(ctx, report.ID, id.UserID(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, admin, *again.ResolvedBy)
}

func TestResolveMissingReport(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.ResolveReport(context.Background(), id.ReportID(uuid.New()), id.UserID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestReportsOrderOpenFirst(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	reporter := id.UserID(uuid.New())

	first, err := svc.CreateReport(ctx, reporter, "post:1", "spam")
	require.NoError(t, err)
	_, err = svc.CreateReport(ctx, reporter, "post:2", "abuse")
	require.NoError(t, err)

	_, err = svc.ResolveReport(ctx, first.ID, id.UserID(uuid.New()))
	require.NoError(t, err)

	reports, err := svc.Reports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "open", reports[0].Status)
	assert.Equal(t, "resolved", reports[1].Status)
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	ctx := context.Background()
	svc, users, revoker := newTestService()

	user, err := users.FindOrCreateByEmail(ctx, "target@hacklab.dev")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	assert.Equal(t, []id.UserID{user.ID}, revoker.revoked)

	_, err = users.Get(ctx, user.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDeleteUserMissing(t *testing.T) {
	svc, _, revoker := newTestService()
	err := svc.DeleteUser(context.Background(), id.UserID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.Empty(t, revoker.revoked, "no revocation for a delete that did not happen")
}

func TestDeleteUserPartialWhenRevocationFails(t *testing.T) {
	ctx := context.Background()
	svc, users, revoker := newTestService()
	revoker.fail = errors.New("session store down")

	user, err := users.FindOrCreateByEmail(ctx, "half@hacklab.dev")
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, user.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePartialUpdate))

	_, err = users.Get(ctx, user.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound), "the account deletion stands")
}
