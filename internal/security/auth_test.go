package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityfix/cityfix-go/internal/errors"
)

type memSessions struct {
	active  bool
	failSet bool
}

func (m *memSessions) AdminSession() (bool, error) { return m.active, nil }

func (m *memSessions) SetAdminSession(active bool) error {
	if m.failSet {
		return errors.Newf("disk full").Category(errors.CategoryPersistence).Build()
	}
	m.active = active
	return nil
}

func TestSharedSecret(t *testing.T) {
	t.Parallel()

	auth := NewSharedSecret("admin123")
	assert.True(t, auth.Authenticate("admin123"))
	assert.False(t, auth.Authenticate("admin1234"))
	assert.False(t, auth.Authenticate(""))
}

func TestGateLoginLogout(t *testing.T) {
	t.Parallel()

	sessions := &memSessions{}
	gate := NewGate(NewSharedSecret("admin123"), sessions)

	assert.False(t, gate.Active())

	err := gate.Login("wrong")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.False(t, gate.Active())

	require.NoError(t, gate.Login("admin123"))
	assert.True(t, gate.Active())

	require.NoError(t, gate.Logout())
	assert.False(t, gate.Active())
}

func TestGateLoginPersistenceFailure(t *testing.T) {
	t.Parallel()

	sessions := &memSessions{failSet: true}
	gate := NewGate(NewSharedSecret("admin123"), sessions)

	err := gate.Login("admin123")
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
}
