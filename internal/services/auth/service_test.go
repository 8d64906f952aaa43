package auth

import (
	"testing"

	"bankcards/internal/models"
	"bankcards/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	uu := *user
	r.users[user.ID] = &uu
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	uu := *user
	return &uu, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			uu := *user
			return &uu, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(limit, offset int) ([]models.User, int64, error) {
	var out []models.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	uu := *user
	r.users[user.ID] = &uu
	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(userID uint) error {
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.TokenVersion++
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-jwt-secret")

	repo := newFakeUserRepo()
	svc := NewService(repo)

	registered, err := svc.Register("holder@example.com", "longenough", "Ivan", "Petrov")
	require.NoError(t, err)
	assert.True(t, registered.Active)
	assert.NotEqual(t, "longenough", registered.Password, "password must be hashed")

	t.Run("correct credentials", func(t *testing.T) {
		user, access, refresh, err := svc.Login("holder@example.com", "longenough")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login("holder@example.com", "wrongpassword")
		assert.Error(t, err)
	})

	t.Run("short password rejected at registration", func(t *testing.T) {
		_, err := svc.Register("other@example.com", "short", "A", "B")
		assert.Error(t, err)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register("holder@example.com", "longenough", "Ivan", "Petrov")
		assert.Error(t, err)
	})
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-jwt-secret")

	repo := newFakeUserRepo()
	svc := NewService(repo)

	registered, err := svc.Register("holder@example.com", "longenough", "Ivan", "Petrov")
	require.NoError(t, err)

	// Administrative deactivation flips the flag; login must then refuse.
	repo.users[registered.ID].Active = false

	_, _, _, err = svc.Login("holder@example.com", "longenough")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deactivated")
}
