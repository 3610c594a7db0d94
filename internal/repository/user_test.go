package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"

	"blognest/internal/model"
)

func TestTranslateUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "username constraint",
			err:  &pq.Error{Code: "23505", Constraint: "users_username_key"},
			want: model.ErrUsernameExists,
		},
		{
			name: "email constraint",
			err:  &pq.Error{Code: "23505", Constraint: "users_email_key"},
			want: model.ErrEmailExists,
		},
		{
			name: "google provider id constraint",
			err:  &pq.Error{Code: "23505", Constraint: "users_google_id_key"},
			want: model.ErrProviderIDExists,
		},
		{
			name: "github provider id constraint",
			err:  &pq.Error{Code: "23505", Constraint: "users_github_id_key"},
			want: model.ErrProviderIDExists,
		},
		{
			name: "other pq error untouched",
			err:  &pq.Error{Code: "23503"},
			want: nil,
		},
		{
			name: "non-pq error untouched",
			err:  errors.New("broken pipe"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateUniqueViolation(tt.err)
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
