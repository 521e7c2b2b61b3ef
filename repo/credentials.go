package repo

import (
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/joho/godotenv"

	"github.com/teranos/ciprobe/errors"
)

// Default credential sources.
const (
	DefaultUsernameEnv = "AZURE_USERNAME"
	DefaultTokenEnv    = "AZURE_TOKEN"
	DefaultEnvFile     = ".env"
)

// Credentials authenticate clones and pulls over HTTPS.
type Credentials struct {
	Username string
	Token    string
}

// Auth returns the go-git auth method, or nil for empty credentials.
func (c *Credentials) Auth() transport.AuthMethod {
	if c == nil || (c.Username == "" && c.Token == "") {
		return nil
	}
	return &githttp.BasicAuth{Username: c.Username, Password: c.Token}
}

// CredentialSources names where LoadCredentials looks.
// Empty fields fall back to the defaults above.
type CredentialSources struct {
	UsernameEnv string
	TokenEnv    string
	EnvFile     string
}

func (s CredentialSources) withDefaults() CredentialSources {
	if s.UsernameEnv == "" {
		s.UsernameEnv = DefaultUsernameEnv
	}
	if s.TokenEnv == "" {
		s.TokenEnv = DefaultTokenEnv
	}
	if s.EnvFile == "" {
		s.EnvFile = DefaultEnvFile
	}
	return s
}

// LoadCredentials resolves credentials in order: flagValue ("user:token"),
// the environment, then the env file. Failure is marked errors.ErrCredentials.
func LoadCredentials(flagValue string, src CredentialSources) (*Credentials, error) {
	src = src.withDefaults()

	if flagValue != "" {
		user, token, ok := strings.Cut(flagValue, ":")
		if !ok || user == "" || token == "" {
			return nil, errors.WithHint(
				errors.Mark(errors.New("credentials flag must have the form user:token"), errors.ErrCredentials),
				"pass --credentials <username>:<personal access token>")
		}
		return &Credentials{Username: user, Token: token}, nil
	}

	user, token := os.Getenv(src.UsernameEnv), os.Getenv(src.TokenEnv)
	if user != "" && token != "" {
		return &Credentials{Username: user, Token: token}, nil
	}

	env, err := godotenv.Read(src.EnvFile)
	if err == nil && env[src.UsernameEnv] != "" && env[src.TokenEnv] != "" {
		return &Credentials{Username: env[src.UsernameEnv], Token: env[src.TokenEnv]}, nil
	}

	return nil, errors.WithHintf(
		errors.Mark(errors.Newf("credentials not found in environment or %s file", src.EnvFile), errors.ErrCredentials),
		"set %s and %s, add them to %s, or pass --credentials user:token",
		src.UsernameEnv, src.TokenEnv, src.EnvFile)
}
