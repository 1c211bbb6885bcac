package retry

import (
	"errors"
	"syscall"
)

// Classifier separates transient failures from permanent ones.
type Classifier interface {
	IsTransient(err error) bool
}

// transientErrnos are failures that usually clear up on their own.
var transientErrnos = []syscall.Errno{
	syscall.EINTR,
	syscall.EAGAIN,
	syscall.EMFILE,
	syscall.ENFILE,
	syscall.EBUSY,
}

// FilesystemErrorClassifier recognizes transient errno values anywhere in
// an error chain. Missing files, permission problems and loops are
// permanent.
type FilesystemErrorClassifier struct{}

// NewFilesystemErrorClassifier creates a new filesystem error classifier.
func NewFilesystemErrorClassifier() *FilesystemErrorClassifier {
	return &FilesystemErrorClassifier{}
}

// IsTransient implements Classifier.
func (c *FilesystemErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
