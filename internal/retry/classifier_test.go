package retry

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"
)

func TestFilesystemErrorClassifier_IsTransient(t *testing.T) {
	classifier := NewFilesystemErrorClassifier()

	tests := []struct {
		name        string
		err         error
		isTransient bool
	}{
		{"nil", nil, false},
		{"interrupted", syscall.EINTR, true},
		{"try again", syscall.EAGAIN, true},
		{"too many open files", &fs.PathError{Op: "open", Path: "/d", Err: syscall.EMFILE}, true},
		{"file table overflow", fmt.Errorf("opendir: %w", syscall.ENFILE), true},
		{"busy", syscall.EBUSY, true},
		{"not found", &fs.PathError{Op: "stat", Path: "/x", Err: syscall.ENOENT}, false},
		{"permission", fs.ErrPermission, false},
		{"loop", syscall.ELOOP, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.IsTransient(tt.err); got != tt.isTransient {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.isTransient)
			}
		})
	}
}
