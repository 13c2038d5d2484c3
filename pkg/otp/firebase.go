// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package otp

import (
	"context"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/gastrocatalogo/gastro-server/pkg/conf"
)

// PhoneIdentity is a phone number verified by an identity provider.
type PhoneIdentity struct {
	UID   string
	Phone string
}

// IdentityVerifier checks an ID token issued after a phone verification done by the client.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*PhoneIdentity, error)
}

// FirebaseVerifier verifies Firebase Phone Auth ID tokens.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes a Firebase app for the configured project.
func NewFirebaseVerifier(ctx context.Context, c conf.Firebase) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: c.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (f *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*PhoneIdentity, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	phone, _ := token.Claims["phone_number"].(string)
	if phone == "" {
		return nil, ErrNoPhoneClaim
	}
	return &PhoneIdentity{UID: token.UID, Phone: phone}, nil
}
