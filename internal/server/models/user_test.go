package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PublicDropsPasswordHash(t *testing.T) {
	u := &User{ID: 7, UserName: "alice", Email: "a@x.com", PasswordHash: "$2a$10$secret"}

	p := u.Public()
	assert.Equal(t, &PublicUser{ID: 7, UserName: "alice", Email: "a@x.com"}, p)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.JSONEq(t, `{"id":7,"username":"alice","email":"a@x.com"}`, string(b))
}

func TestValidIdentity(t *testing.T) {
	long := strings.Repeat("a", MaxUserNameLen+1)

	tests := []struct {
		name     string
		userName string
		email    string
		want     bool
	}{
		{name: "plain", userName: "alice", email: "a@x.com", want: true},
		{name: "at the limit", userName: strings.Repeat("ä", MaxUserNameLen), email: "a@x.com", want: true},
		{name: "long username", userName: long, email: "a@x.com"},
		{name: "long email", userName: "alice", email: long + "@x.com"},
		{name: "nul byte", userName: "ali\x00ce", email: "a@x.com"},
		{name: "invalid utf8", userName: "alice", email: "a\xff@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidIdentity(tt.userName, tt.email))
		})
	}
}
