package voxo_test

import (
	"context"
	stderrors "errors"
	"testing"

	voxo "github.com/kbujak09/voxo-backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSignupPayloadFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload voxo.SignupPayload
		want    []voxo.FieldError
	}{
		{
			name: "accepts a valid payload",
			payload: voxo.SignupPayload{
				Username:        "frank",
				Password:        "longenough",
				ConfirmPassword: "longenough",
			},
		},
		{
			name: "rejects an empty username",
			payload: voxo.SignupPayload{
				Username:        "",
				Password:        "longenough",
				ConfirmPassword: "longenough",
			},
			want: []voxo.FieldError{
				{Field: "username", Message: "Username can not be empty."},
			},
		},
		{
			name: "rejects a username with spaces",
			payload: voxo.SignupPayload{
				Username:        "fr ank",
				Password:        "longenough",
				ConfirmPassword: "longenough",
			},
			want: []voxo.FieldError{
				{Field: "username", Message: "No spaces are allowed in the username."},
			},
		},
		{
			name: "rejects a username that is too short",
			payload: voxo.SignupPayload{
				Username:        "te",
				Password:        "longenough",
				ConfirmPassword: "longenough",
			},
			want: []voxo.FieldError{
				{Field: "username", Message: "Username must contain at least 3 characters."},
			},
		},
		{
			name: "rejects a username that is too long",
			payload: voxo.SignupPayload{
				Username:        "seventeencharacts",
				Password:        "longenough",
				ConfirmPassword: "longenough",
			},
			want: []voxo.FieldError{
				{Field: "username", Message: "Username can not be longer than 16 characters."},
			},
		},
		{
			name: "rejects a short password",
			payload: voxo.SignupPayload{
				Username:        "frank",
				Password:        "short",
				ConfirmPassword: "short",
			},
			want: []voxo.FieldError{
				{Field: "password", Message: "Password must contain at least 8 characters."},
			},
		},
		{
			name: "rejects a mismatched confirmation",
			payload: voxo.SignupPayload{
				Username:        "frank",
				Password:        "longenough",
				ConfirmPassword: "longenuff",
			},
			want: []voxo.FieldError{
				{Field: "confirmPassword", Message: "Passwords do not match."},
			},
		},
		{
			name: "collects violations across fields",
			payload: voxo.SignupPayload{
				Username:        "te",
				Password:        "short",
				ConfirmPassword: "different",
			},
			want: []voxo.FieldError{
				{Field: "username", Message: "Username must contain at least 3 characters."},
				{Field: "password", Message: "Password must contain at least 8 characters."},
				{Field: "confirmPassword", Message: "Passwords do not match."},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.payload.FieldErrors()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRegisterUserHandlerExecute(t *testing.T) {
	validPayload := voxo.SignupPayload{
		Username:        "frank",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}

	t.Run("creates the account", func(t *testing.T) {
		users := &MockUsers{}
		users.On("UsernameTaken", mock.Anything, "frank").Return(false, nil)
		users.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*voxo.User")).
			Return(&voxo.User{}, nil)

		handler := voxo.NewRegisterUserHandler(stubRepoManager{users: users})

		rejection, err := handler.Execute(context.Background(), validPayload)
		assert.NoError(t, err)
		assert.Nil(t, rejection)

		users.AssertExpectations(t)

		created := users.Calls[1].Arguments.Get(2).(*voxo.User)
		assert.Equal(t, "frank", created.Username)
		assert.NotEmpty(t, created.PasswordHash)
		assert.NoError(t, voxo.ComparePasswordAndHash("longenough", created.PasswordHash))
	})

	t.Run("a taken username masks field errors", func(t *testing.T) {
		users := &MockUsers{}
		users.On("UsernameTaken", mock.Anything, "te").Return(true, nil)

		handler := voxo.NewRegisterUserHandler(stubRepoManager{users: users})

		rejection, err := handler.Execute(context.Background(), voxo.SignupPayload{
			Username:        "te",
			Password:        "short",
			ConfirmPassword: "different",
		})
		assert.NoError(t, err)
		assert.NotNil(t, rejection)
		assert.Equal(t, []voxo.FieldError{
			{Field: "username", Message: voxo.MsgUsernameTaken},
		}, rejection.Errors)

		users.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("field errors block the insert", func(t *testing.T) {
		users := &MockUsers{}
		users.On("UsernameTaken", mock.Anything, "frank").Return(false, nil)

		handler := voxo.NewRegisterUserHandler(stubRepoManager{users: users})

		rejection, err := handler.Execute(context.Background(), voxo.SignupPayload{
			Username:        "frank",
			Password:        "short",
			ConfirmPassword: "short",
		})
		assert.NoError(t, err)
		assert.NotNil(t, rejection)
		assert.Equal(t, "frank", rejection.Username)
		assert.Len(t, rejection.Errors, 1)
		assert.Equal(t, "password", rejection.Errors[0].Field)

		users.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a unique index violation reads as taken", func(t *testing.T) {
		users := &MockUsers{}
		users.On("UsernameTaken", mock.Anything, "frank").Return(false, nil)
		users.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*voxo.User")).
			Return(nil, stderrors.New("constraint failed: UNIQUE constraint failed: users.username"))

		handler := voxo.NewRegisterUserHandler(stubRepoManager{users: users})

		rejection, err := handler.Execute(context.Background(), validPayload)
		assert.NoError(t, err)
		assert.NotNil(t, rejection)
		assert.Equal(t, []voxo.FieldError{
			{Field: "username", Message: voxo.MsgUsernameTaken},
		}, rejection.Errors)
	})

	t.Run("store failures surface as errors", func(t *testing.T) {
		users := &MockUsers{}
		users.On("UsernameTaken", mock.Anything, "frank").
			Return(false, stderrors.New("disk on fire"))

		handler := voxo.NewRegisterUserHandler(stubRepoManager{users: users})

		rejection, err := handler.Execute(context.Background(), validPayload)
		assert.Error(t, err)
		assert.Nil(t, rejection)
	})

	t.Run("honors a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		handler := voxo.NewRegisterUserHandler(stubRepoManager{users: &MockUsers{}})

		rejection, err := handler.Execute(ctx, validPayload)
		assert.Error(t, err)
		assert.Nil(t, rejection)
	})

	t.Run("trims and escapes the stored username", func(t *testing.T) {
		users := &MockUsers{}
		users.On("UsernameTaken", mock.Anything, "frank").Return(false, nil)
		users.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*voxo.User")).
			Return(&voxo.User{}, nil)

		handler := voxo.NewRegisterUserHandler(stubRepoManager{users: users})

		rejection, err := handler.Execute(context.Background(), voxo.SignupPayload{
			Username:        "  frank  ",
			Password:        "longenough",
			ConfirmPassword: "longenough",
		})
		assert.NoError(t, err)
		assert.Nil(t, rejection)

		created := users.Calls[1].Arguments.Get(2).(*voxo.User)
		assert.Equal(t, "frank", created.Username)
	})
}
