package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Type
	}{
		{
			name: "validation error",
			err:  Validation("missing required field: %s", "prompt"),
			want: TypeValidation,
		},
		{
			name: "not found error",
			err:  NotFound("collection not found"),
			want: TypeNotFound,
		},
		{
			name: "generation error",
			err:  Generation(errors.New("rate limited"), "image generation failed"),
			want: TypeGeneration,
		},
		{
			name: "wrapped app error",
			err:  fmt.Errorf("handler: %w", Provider(errors.New("timeout"), "pexels call failed")),
			want: TypeProvider,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestMessageOf(t *testing.T) {
	err := Validation("missing required field: prompt")
	assert.Equal(t, "missing required field: prompt", MessageOf(err))

	plain := errors.New("boom")
	assert.Equal(t, "boom", MessageOf(plain))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(TypeValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(TypeNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(TypeProvider))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(TypeGeneration))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(TypeInternal))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Provider(cause, "everypixel call failed")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "ProviderError")
	assert.Contains(t, err.Error(), "connection refused")
}
