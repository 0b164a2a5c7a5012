package user

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
)

type stubUserService struct {
	user.Service
	registered user.RegisterParams
}

func (s *stubUserService) Register(_ context.Context, params user.RegisterParams) (*user.User, error) {
	s.registered = params
	u := user.NewUser(params.Username, params.Email, "$2a$hash", params.FirstName, params.LastName, params.BirthDate)
	u.ID = 1
	return u, nil
}

func TestRegisterUseCase_HidesPassword(t *testing.T) {
	svc := &stubUserService{}
	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	resp, err := NewRegisterUseCase(svc).Execute(context.Background(), RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret123",
		BirthDate: &birth,
	})
	require.NoError(t, err)

	assert.Equal(t, "secret123", svc.registered.Password, "明文密码交给领域服务加密")
	require.NotNil(t, resp.BirthDate)
	assert.Equal(t, "1990-05-17", *resp.BirthDate)
	assert.True(t, resp.IsActive)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "$2a$")
}
