// Package fbase implements the identity verifier on top of Firebase
// Authentication ID tokens.
package fbase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	fb "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"

	"github.com/Black3800/zeeu-api/server/auth"
	"github.com/Black3800/zeeu-api/server/store/types"
)

// verifier implements auth.Verifier; resolves Firebase ID tokens to
// subject id and role.
type verifier struct {
	client *fbauth.Client
}

type configType struct {
	ProjectID string `json:"project_id"`
	// Path to a service account credentials file. Falls back to
	// application default credentials when empty.
	CredentialsFile string `json:"credentials_file"`
	// Name of the custom claim carrying the subject role.
	RoleClaim string `json:"role_claim"`
}

var handler verifier
var roleClaim = "role"

// Init initializes the verifier.
func (v *verifier) Init(jsonconf json.RawMessage) error {
	if v.client != nil {
		return errors.New("fbase: already initialized")
	}

	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("fbase: failed to parse config: " + err.Error())
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	ctx := context.Background()
	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: config.ProjectID}, opts...)
	if err != nil {
		return err
	}

	v.client, err = app.Auth(ctx)
	if err != nil {
		return err
	}

	if config.RoleClaim != "" {
		roleClaim = config.RoleClaim
	}

	return nil
}

// Verify checks the ID token's signature and expiry and resolves the
// subject. Unknown or absent role claims default to patient.
func (v *verifier) Verify(ctx context.Context, token string) (*auth.Subject, error) {
	if v.client == nil {
		return nil, auth.ErrInternal
	}
	if token == "" {
		return nil, auth.ErrMalformed
	}

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return nil, auth.ErrExpired
		}
		return nil, auth.ErrFailed
	}

	role, _ := decoded.Claims[roleClaim].(string)
	if !types.ValidRole(role) {
		role = types.RolePatient
	}

	return &auth.Subject{ID: decoded.UID, Role: role}, nil
}

func init() {
	auth.RegisterVerifier("fbase", &handler)
}
