package solvers

import (
	"encoding/base64"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/v2"
)

// ProtocolFunc resolves the payload that follows a protocol prefix.
type ProtocolFunc func(fsys fs.FS, payload string) (string, error)

type uris struct {
	fs         fs.FS
	delimiters delimiters
	protocols  map[string]ProtocolFunc
}

// NewURISolver resolves values such as @file://reducers/initial.json and
// @base64://c2VjcmV0 against the working directory.
func NewURISolver(start, end string) ConfigSolver {
	return NewURISolverWithFS(start, end, os.DirFS("."))
}

func NewURISolverWithFS(start, end string, fsys fs.FS) ConfigSolver {
	return &uris{
		fs:         fsys,
		delimiters: delimiters{Start: start, End: end},
		protocols: map[string]ProtocolFunc{
			"file":   SolveFileProtocol,
			"base64": SolveBase64DecodeProtocol,
		},
	}
}

func (s *uris) Solve(k *koanf.Koanf) *koanf.Koanf {
	eachString(k, func(key, val string) {
		// only values that start with the reference are resolved
		if !strings.HasPrefix(val, s.delimiters.Start) {
			return
		}
		protocol, _, to, ok := s.delimiters.find(val)
		if !ok {
			return
		}
		resolve, ok := s.protocols[protocol]
		if !ok {
			return
		}
		if content, err := resolve(s.fs, val[to:]); err == nil {
			k.Set(key, content)
		}
	})
	return k
}

func SolveFileProtocol(fsys fs.FS, path string) (string, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func SolveBase64DecodeProtocol(_ fs.FS, payload string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
