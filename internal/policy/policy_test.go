package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/sports-academy/internal/models"
)

type mockOwners struct {
	mock.Mock
}

func (m *mockOwners) Owners(ctx context.Context, res Resource, id uint) (Owners, error) {
	args := m.Called(ctx, res, id)
	return args.Get(0).(Owners), args.Error(1)
}

func uptr(v uint) *uint { return &v }

var (
	admin   = &models.User{ID: 1, Role: models.UserRoleAdmin}
	coach1  = &models.User{ID: 2, Role: models.UserRoleCoach}
	coach2  = &models.User{ID: 6, Role: models.UserRoleCoach}
	player1 = &models.User{ID: 3, Role: models.UserRolePlayer}
	player2 = &models.User{ID: 4, Role: models.UserRolePlayer}
)

func TestAuthorize(t *testing.T) {
	batchOfCoach1 := Owners{CoachUserID: uptr(2)}
	attendanceOfPlayer1 := Owners{CoachUserID: uptr(2), PlayerUserID: uptr(3)}
	playerOne := Owners{PlayerUserID: uptr(3)}

	tests := []struct {
		name    string
		user    *models.User
		res     Resource
		act     Action
		id      uint
		owners  *Owners // nil: resolver must not be called
		wantErr error
		wantMsg string
	}{
		{name: "admin reads any batch", user: admin, res: ResourceBatches, act: ActionRead, id: 1, owners: &batchOfCoach1},
		{name: "owning coach updates batch", user: coach1, res: ResourceBatches, act: ActionUpdate, id: 1, owners: &batchOfCoach1},
		{name: "other coach cannot update batch", user: coach2, res: ResourceBatches, act: ActionUpdate, id: 1, owners: &batchOfCoach1, wantErr: ErrDenied, wantMsg: MsgDenied},
		{name: "player reads batch leniently", user: player1, res: ResourceBatches, act: ActionRead, id: 1, owners: &batchOfCoach1},
		{name: "player cannot create batch", user: player1, res: ResourceBatches, act: ActionCreate, wantErr: ErrDenied, wantMsg: MsgAdminOnly},
		{name: "coach cannot delete player", user: coach1, res: ResourcePlayers, act: ActionDelete, id: 1, wantErr: ErrDenied, wantMsg: MsgAdminOnly},
		{name: "player updates own profile", user: player1, res: ResourcePlayers, act: ActionUpdate, id: 1, owners: &playerOne},
		{name: "player cannot update another profile", user: player2, res: ResourcePlayers, act: ActionUpdate, id: 1, owners: &playerOne, wantErr: ErrDenied},
		{name: "player cannot list players", user: player1, res: ResourcePlayers, act: ActionList, wantErr: ErrDenied, wantMsg: MsgDenied},
		{name: "coach lists players", user: coach1, res: ResourcePlayers, act: ActionList},
		{name: "subject player reads attendance", user: player1, res: ResourceAttendance, act: ActionRead, id: 1, owners: &attendanceOfPlayer1},
		{name: "unrelated player cannot read attendance", user: player2, res: ResourceAttendance, act: ActionRead, id: 1, owners: &attendanceOfPlayer1, wantErr: ErrDenied},
		{name: "related coach deletes attendance", user: coach1, res: ResourceAttendance, act: ActionDelete, id: 1, owners: &attendanceOfPlayer1},
		{name: "player cannot delete attendance", user: player1, res: ResourceAttendance, act: ActionDelete, id: 1, wantErr: ErrDenied},
		{name: "coach edits any stats leniently", user: coach2, res: ResourcePlayerStats, act: ActionUpdate, id: 9, owners: &playerOne},
		{name: "player cannot edit own stats", user: player1, res: ResourcePlayerStats, act: ActionUpdate, id: 9, wantErr: ErrDenied},
		{name: "unknown pair is admin only", user: coach1, res: ResourceUsers, act: ActionRead, id: 1, wantErr: ErrDenied, wantMsg: MsgAdminOnly},
		{name: "nil user denied", user: nil, res: ResourceGames, act: ActionList, wantErr: ErrDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &mockOwners{}
			if tt.owners != nil {
				resolver.On("Owners", mock.Anything, tt.res, tt.id).Return(*tt.owners, nil)
			}
			authz := NewAuthorizer(DefaultTable(), resolver)

			err := authz.Authorize(context.Background(), tt.user, tt.res, tt.act, tt.id)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}
			}
			resolver.AssertExpectations(t)
			if tt.owners == nil {
				resolver.AssertNotCalled(t, "Owners", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAuthorize_MissingRecord(t *testing.T) {
	resolver := &mockOwners{}
	resolver.On("Owners", mock.Anything, ResourceGames, uint(42)).
		Return(Owners{}, NotFound("Game not found"))
	authz := NewAuthorizer(DefaultTable(), resolver)

	err := authz.Authorize(context.Background(), admin, ResourceGames, ActionRead, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Game not found")
}

func TestAuthorize_ResolverFailure(t *testing.T) {
	boom := errors.New("connection reset")
	resolver := &mockOwners{}
	resolver.On("Owners", mock.Anything, ResourceBatches, uint(1)).Return(Owners{}, boom)
	authz := NewAuthorizer(DefaultTable(), resolver)

	err := authz.Authorize(context.Background(), coach1, ResourceBatches, ActionUpdate, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDenied)
}

func TestOwnersOwnedBy(t *testing.T) {
	o := Owners{CoachUserID: uptr(2), PlayerUserID: uptr(3)}
	assert.True(t, o.OwnedBy(coach1))
	assert.True(t, o.OwnedBy(player1))
	assert.False(t, o.OwnedBy(coach2))
	assert.False(t, o.OwnedBy(player2))
	// Admins never pass through ownership; they pass on role.
	assert.False(t, o.OwnedBy(&models.User{ID: 2, Role: models.UserRoleAdmin}))

	assert.False(t, Owners{}.OwnedBy(coach1))
}

func TestViolation(t *testing.T) {
	var v *Violation
	err := Conflict("busy")
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "busy", v.Message)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}
