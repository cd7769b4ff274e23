package domain

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		wantText string
	}{
		{
			name:     "manifest",
			err:      &ManifestError{Path: "/ws/Cargo.toml", Err: fs.ErrNotExist},
			sentinel: ErrManifest,
			wantText: "manifest /ws/Cargo.toml",
		},
		{
			name:     "pattern",
			err:      &PatternError{Pattern: "src/[", Err: errors.New("bad")},
			sentinel: ErrPattern,
			wantText: `pattern "src/["`,
		},
		{
			name:     "file too large",
			err:      &FileError{Path: "src/big.rs", Kind: ErrFileTooLarge},
			sentinel: ErrFileTooLarge,
			wantText: "src/big.rs: file exceeds size limit",
		},
		{
			name:     "parse",
			err:      &FileError{Path: "src/bad.rs", Kind: ErrParse, Err: errors.New("1:1")},
			sentinel: ErrParse,
			wantText: "src/bad.rs: parse error: 1:1",
		},
		{
			name:     "duplicate handler",
			err:      &DuplicateHandlerError{ModulePath: []string{"handler"}, Name: "list"},
			sentinel: ErrDuplicateHandler,
			wantText: `handler "list" declared more than once in scope /handler`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Contains(t, tt.err.Error(), tt.wantText)
		})
	}
}

func TestErrors_WrappedCause(t *testing.T) {
	err := &ManifestError{Path: "Cargo.toml", Err: fs.ErrNotExist}
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var manifestErr *ManifestError
	assert.ErrorAs(t, errors.Join(errors.New("other"), err), &manifestErr)
}
