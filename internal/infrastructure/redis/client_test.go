package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), fmt.Sprintf("redis://%s", s.Addr()))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientErrors(t *testing.T) {
	s := miniredis.RunT(t)
	downURL := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"invalid URL", "://bad-url"},
		{"server down", downURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(context.Background(), tt.url); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
