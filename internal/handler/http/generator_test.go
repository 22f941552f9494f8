package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/lightningsoon/KeyMinder/internal/service"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword_QueryOptions(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  models.GeneratorOptions
	}{
		{
			name:  "defaults",
			query: "",
			want:  models.DefaultGeneratorOptions(),
		},
		{
			name:  "all toggles",
			query: "?length=20&includeUppercase=true&includeLowercase=false&includeNumbers=false&includeSymbols=true",
			want:  models.GeneratorOptions{Length: 20, IncludeUppercase: true, IncludeSymbols: true},
		},
		{
			name:  "unknown toggle value keeps default",
			query: "?includeLowercase=no",
			want:  models.DefaultGeneratorOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices()
			svc.GeneratorService = &stubGeneratorService{
				passwordFn: func(_ context.Context, o models.GeneratorOptions) (string, error) {
					assert.Equal(t, tt.want, o)
					return "generated", nil
				},
			}

			rr := serve(t, newTestHandler(svc), http.MethodGet, "/api/passwords/generate/password"+tt.query, nil, true)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "generated", decodeBody[models.GeneratedPasswordResponse](t, rr).Password)
		})
	}
}

func TestGeneratePassword_BadLength(t *testing.T) {
	rr := serve(t, newTestHandler(newTestServices()), http.MethodGet, "/api/passwords/generate/password?length=abc", nil, true)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGeneratePassword_OutOfRange(t *testing.T) {
	svc := newTestServices()
	svc.GeneratorService = &stubGeneratorService{
		passwordFn: func(context.Context, models.GeneratorOptions) (string, error) {
			return "", service.ErrInvalidDataProvided
		},
	}

	rr := serve(t, newTestHandler(svc), http.MethodGet, "/api/passwords/generate/password?length=1000", nil, true)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGeneratePassphrase(t *testing.T) {
	svc := newTestServices()
	svc.GeneratorService = &stubGeneratorService{
		passphraseFn: func(_ context.Context, o models.PassphraseOptions) (string, error) {
			assert.Equal(t, models.PassphraseOptions{Words: 4, Separator: "_"}, o)
			return "a_b_c_d", nil
		},
	}

	rr := serve(t, newTestHandler(svc), http.MethodGet, "/api/passwords/generate/passphrase?words=4&separator=_", nil, true)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "a_b_c_d", decodeBody[models.GeneratedPassphraseResponse](t, rr).Passphrase)
}
