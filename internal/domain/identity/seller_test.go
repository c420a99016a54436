package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSeller(t *testing.T) *Seller {
	s, err := NewSeller(uuid.New(), "chipo@example.com", "Secret123", "Chipo Traders")
	require.NoError(t, err)
	return s
}

func TestNewSeller(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active seller", func(t *testing.T) {
		s, err := NewSeller(tenantID, "Chipo@Example.com", "Secret123", "Chipo Traders")
		require.NoError(t, err)
		assert.Equal(t, "chipo@example.com", s.Email)
		assert.Equal(t, SellerStatusActive, s.Status)
		assert.Equal(t, RoleSeller, s.Role)
		assert.NotEmpty(t, s.PasswordHash)
		assert.NotEqual(t, "Secret123", s.PasswordHash)
		assert.Len(t, s.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewSeller(tenantID, "not-an-email", "Secret123", "Chipo Traders")
		assert.Error(t, err)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := NewSeller(tenantID, "chipo@example.com", "short1", "Chipo Traders")
		assert.Error(t, err)
	})

	t.Run("rejects password without digits", func(t *testing.T) {
		_, err := NewSeller(tenantID, "chipo@example.com", "onlyletters", "Chipo Traders")
		assert.Error(t, err)
	})

	t.Run("rejects empty business name", func(t *testing.T) {
		_, err := NewSeller(tenantID, "chipo@example.com", "Secret123", "")
		assert.Error(t, err)
	})
}

func TestNewAdmin(t *testing.T) {
	s, err := NewAdmin(uuid.New(), "ops@example.com", "Secret123", "Platform Ops")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, s.Role)
	assert.True(t, s.IsAdmin())
}

func TestSellerVerifyPassword(t *testing.T) {
	s := createTestSeller(t)
	assert.True(t, s.VerifyPassword("Secret123"))
	assert.False(t, s.VerifyPassword("Wrong123"))
}

func TestSellerChangePassword(t *testing.T) {
	t.Run("changes with correct old password", func(t *testing.T) {
		s := createTestSeller(t)
		err := s.ChangePassword("Secret123", "NewSecret456")
		require.NoError(t, err)
		assert.True(t, s.VerifyPassword("NewSecret456"))
	})

	t.Run("fails with wrong old password", func(t *testing.T) {
		s := createTestSeller(t)
		err := s.ChangePassword("Wrong123", "NewSecret456")
		assert.Error(t, err)
	})
}

func TestSellerSuspend(t *testing.T) {
	s := createTestSeller(t)

	require.NoError(t, s.Suspend())
	assert.Equal(t, SellerStatusSuspended, s.Status)
	assert.False(t, s.CanLogin())

	assert.Error(t, s.Suspend())

	require.NoError(t, s.Reinstate())
	assert.True(t, s.CanLogin())
}

func TestSellerLoginTracking(t *testing.T) {
	t.Run("success resets failed attempts", func(t *testing.T) {
		s := createTestSeller(t)
		s.RecordLoginFailure(5, time.Minute)
		s.RecordLoginSuccess("10.0.0.1")
		assert.Equal(t, 0, s.FailedAttempts)
		require.NotNil(t, s.LastLoginAt)
		assert.Equal(t, "10.0.0.1", s.LastLoginIP)
	})

	t.Run("locks after max attempts", func(t *testing.T) {
		s := createTestSeller(t)
		for i := 0; i < 4; i++ {
			assert.False(t, s.RecordLoginFailure(5, time.Minute))
		}
		assert.True(t, s.RecordLoginFailure(5, time.Minute))
		assert.True(t, s.IsLocked())
		assert.False(t, s.CanLogin())
	})

	t.Run("lock expires", func(t *testing.T) {
		s := createTestSeller(t)
		s.RecordLoginFailure(1, -time.Minute)
		assert.False(t, s.IsLocked())
		assert.True(t, s.CanLogin())
	})
}

func TestSellerUpdateProfile(t *testing.T) {
	s := createTestSeller(t)
	err := s.UpdateProfile("Chipo & Sons", "Chipo M.", "+263 77 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "Chipo & Sons", s.BusinessName)
	assert.Equal(t, "Chipo M.", s.ContactName)
	assert.Equal(t, "+263 77 123 4567", s.Phone)
}
