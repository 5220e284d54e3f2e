package repository

import "os"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithIndent sets the YAML indentation width.
func WithIndent(spaces int) Option {
	return func(s *FileStore) {
		if spaces > 0 {
			s.indent = spaces
		}
	}
}

// WithFileMode sets the permissions of written files.
func WithFileMode(perm os.FileMode) Option {
	return func(s *FileStore) {
		if perm != 0 {
			s.perm = perm
		}
	}
}
