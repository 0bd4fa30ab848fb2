package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(User{Type: UserTypeEmployee, Email: "employee@test.com"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := m.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, UserTypeEmployee, user.Type)
	assert.Equal(t, "employee@test.com", user.Email)
}

func TestManager_ParseEmptyToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Parse("")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_ParseRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	parser := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(User{Type: UserTypeEmployee, Email: "employee@test.com"})
	assert.NoError(t, err)

	_, err = parser.Parse(token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_ParseRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(User{Type: UserTypeEmployee, Email: "employee@test.com"})
	assert.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrNoSession)
}
