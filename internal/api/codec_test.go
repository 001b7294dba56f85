package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_WireShape(t *testing.T) {
	c := jsonCodec{}

	b, err := c.Marshal(&VerifyResponse{Valid: false})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":false}`, string(b))

	b, err = c.Marshal(&VerifyResponse{Valid: true, Claims: &Claims{UserID: 42, ExpiresAt: 1700003600}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true,"claims":{"userId":42,"exp":1700003600}}`, string(b))
}

func TestCodec_Unmarshal(t *testing.T) {
	c := jsonCodec{}

	var req RegisterRequest
	require.NoError(t, c.Unmarshal([]byte(`{"username":"alice","password":"pw1","email":"a@x.com"}`), &req))
	assert.Equal(t, RegisterRequest{Username: "alice", Password: "pw1", Email: "a@x.com"}, req)

	var empty PingRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))

	assert.Error(t, c.Unmarshal([]byte(`{`), &req))
}

func TestServiceDesc_MethodNames(t *testing.T) {
	names := make([]string, 0, len(AuthServiceDesc.Methods))
	for _, m := range AuthServiceDesc.Methods {
		names = append(names, m.MethodName)
	}
	assert.Equal(t, []string{"Register", "Login", "Verify", "WhoAmI", "Logout", "Ping"}, names)
	assert.Equal(t, "/gophauth.AuthService/WhoAmI", WhoAmIFullMethod)
}
