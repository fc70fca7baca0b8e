package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		kind, id, want string
	}{
		{"blog", "abc", "snapshots/blog/abc.png"},
		{"Social", "1", "snapshots/social/1.png"},
		{"../etc", "x", "snapshots/___etc/x.png"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.kind, tt.id); got != tt.want {
			t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.kind, tt.id, got, tt.want)
		}
	}
}

func TestNilClientIsDisabled(t *testing.T) {
	var c *Client
	if _, err := c.PutSnapshot(context.Background(), "k", []byte("png")); !errors.Is(err, ErrDisabled) {
		t.Errorf("PutSnapshot err = %v", err)
	}
	if _, err := c.PresignedURL(context.Background(), "k"); !errors.Is(err, ErrDisabled) {
		t.Errorf("PresignedURL err = %v", err)
	}
}

func TestIsNoSuchKey(t *testing.T) {
	missing := fmt.Errorf("get: %w", minio.ErrorResponse{Code: "NoSuchKey"})
	if !IsNoSuchKey(missing) {
		t.Error("NoSuchKey not detected")
	}
	if IsNoSuchKey(minio.ErrorResponse{Code: "AccessDenied"}) || IsNoSuchKey(nil) {
		t.Error("false positive")
	}
}
