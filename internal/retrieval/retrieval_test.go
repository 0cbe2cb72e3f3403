package retrieval_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/yephonekyaw/sit-cert-server/internal/config"
	"github.com/yephonekyaw/sit-cert-server/internal/retrieval"
)

func TestFetchRequiresCredentials(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		cfg  config.IssuerConfig
	}{
		{"both unset", config.IssuerConfig{}},
		{"password unset", config.IssuerConfig{Username: "portal-user"}},
		{"username unset", config.IssuerConfig{Password: "portal-pass"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := retrieval.New(tt.cfg, logger)

			_, err := r.Fetch(context.Background(), "https://www.citiprogram.org/verify/?w123")
			if !errors.Is(err, retrieval.ErrNotConfigured) {
				t.Errorf("got %v, want ErrNotConfigured", err)
			}
		})
	}
}
