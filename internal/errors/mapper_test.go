package errors_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{svcErr.ErrAlreadyLiked, http.StatusConflict},
		{fmt.Errorf("like 1->2: %w", svcErr.ErrAlreadyDisliked), http.StatusConflict},
		{svcErr.ErrSelfInteraction, http.StatusBadRequest},
		{svcErr.ErrInvalidUser, http.StatusBadRequest},
		{svcErr.ErrNotFound, http.StatusNotFound},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{svcErr.ErrInvalidCredentials, http.StatusUnauthorized},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, svcErr.HTTPStatus(tc.err), "err=%v", tc.err)
	}
}

func TestValidationErrorUnwrapsToInvalidArgument(t *testing.T) {
	v := svcErr.Validation()
	assert.NoError(t, v.Err())

	v.Add("age", "must be at least 18")
	v.Add("age", "ignored second message")

	err := v.Err()
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus(err))
	assert.Equal(t, "must be at least 18", v.Fields["age"])
}

func TestMapToGRPC(t *testing.T) {
	assert.Equal(t, codes.AlreadyExists, status.Code(svcErr.Map(svcErr.ErrAlreadyLiked)))
	assert.Equal(t, codes.NotFound, status.Code(svcErr.Map(gorm.ErrRecordNotFound)))
	assert.Equal(t, codes.InvalidArgument, status.Code(svcErr.Map(svcErr.ErrSelfInteraction)))
	assert.Equal(t, codes.Internal, status.Code(svcErr.Map(fmt.Errorf("boom"))))
	assert.NoError(t, svcErr.Map(nil))
}

func TestMapKeepsExistingStatus(t *testing.T) {
	in := status.Error(codes.NotFound, "unknown service")
	assert.Equal(t, in, svcErr.Map(in))
}
