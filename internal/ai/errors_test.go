package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"network error", errors.New("connection refused"), KindUnavailable},
		{"rate limited", &googleapi.Error{Code: 429}, KindRateLimited},
		{"server error", &googleapi.Error{Code: 503}, KindUnavailable},
		{"bad request", &googleapi.Error{Code: 400}, KindInvalidRequest},
		{"wrapped api error", fmt.Errorf("generate: %w", &googleapi.Error{Code: 429}), KindRateLimited},
		{"unexpected status", &googleapi.Error{Code: 302}, KindInvalidResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}
