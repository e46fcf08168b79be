package googleauth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Endpoint is Google's OAuth 2.0 endpoint including the device
// authorization grant.
var Endpoint = oauth2.Endpoint{
	AuthURL:       "https://accounts.google.com/o/oauth2/auth",
	TokenURL:      "https://oauth2.googleapis.com/token",
	DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
	AuthStyle:     oauth2.AuthStyleInParams,
}

var ErrNoIDToken = errors.New("token response carried no id_token")

// Prompt shows the user where to approve the sign in.
type Prompt func(verificationURI, userCode string)

// DeviceFlow signs a terminal user in with Google and returns the raw ID
// token, which the backend accepts as a Google credential.
type DeviceFlow struct {
	config   *oauth2.Config
	verifier *Verifier
	logger   zerolog.Logger
}

type DeviceFlowOption func(*DeviceFlow)

func WithEndpoint(endpoint oauth2.Endpoint) DeviceFlowOption {
	return func(d *DeviceFlow) {
		d.config.Endpoint = endpoint
	}
}

func WithLogger(logger zerolog.Logger) DeviceFlowOption {
	return func(d *DeviceFlow) {
		d.logger = logger
	}
}

func NewDeviceFlow(clientID, clientSecret string, verifier *Verifier, options ...DeviceFlowOption) (*DeviceFlow, error) {
	if clientID == "" {
		return nil, errors.New("[NewDeviceFlow] clientID is required")
	}
	if verifier == nil {
		return nil, errors.New("[NewDeviceFlow] verifier is required")
	}
	d := &DeviceFlow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		verifier: verifier,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(d)
	}
	return d, nil
}

// Credential runs the device grant until the user approves, denies or the
// code expires. ctx bounds the whole wait.
func (d *DeviceFlow) Credential(ctx context.Context, prompt Prompt) (string, *Identity, error) {
	da, err := d.config.DeviceAuth(ctx)
	if err != nil {
		return "", nil, errors.Wrap(err, "request device code")
	}
	uri := da.VerificationURIComplete
	if uri == "" {
		uri = da.VerificationURI
	}
	if prompt != nil {
		prompt(uri, da.UserCode)
	}
	d.logger.Debug().Str("verification_uri", uri).Msg("waiting for device approval")

	tok, err := d.config.DeviceAccessToken(ctx, da)
	if err != nil {
		return "", nil, errors.Wrap(err, "wait for device approval")
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return "", nil, ErrNoIDToken
	}

	identity, err := d.verifier.Verify(ctx, raw)
	if err != nil {
		return "", nil, err
	}
	return raw, identity, nil
}
