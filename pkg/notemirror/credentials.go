package notemirror

import (
	"context"
	"os"

	"github.com/notemirror/notemirror/pkg/core"
)

// StaticCredentials yields a fixed bearer token. An empty value means
// "not signed in" and mutations fail without a network call.
type StaticCredentials string

func (s StaticCredentials) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

var _ core.CredentialProvider = StaticCredentials("")

// EnvCredentials reads the bearer token from an environment variable on
// every call, so a token rotated out from under a long-lived process is
// picked up.
type EnvCredentials string

func (e EnvCredentials) Token(ctx context.Context) (string, error) {
	return os.Getenv(string(e)), nil
}

var _ core.CredentialProvider = EnvCredentials("")
