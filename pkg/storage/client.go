package storage

import (
	"github.com/pkg/errors"
)

// ErrKindInvalid reports a provider kind with no registered backend.
var ErrKindInvalid = errors.New("storage: unknown provider kind")

// NewClient builds a provider from its configuration.
func NewClient(conf *Config) (Provider, error) {
	switch conf.Kind {
	case Local:
		return NewLocalFS(conf)
	case WebDAV:
		return NewWebDAVClient(conf)
	default:
		return nil, errors.Wrapf(ErrKindInvalid, "%q", conf.Kind)
	}
}
