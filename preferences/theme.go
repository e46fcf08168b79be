// Package preferences persists display preferences next to the tokens.
package preferences

import (
	"context"
	"fmt"

	"github.com/jrsteele09/studysphere/credentials"
	"github.com/pkg/errors"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"

	DefaultTheme = Dark
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case Dark, Light:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Themes reads and writes the theme key of a store.
type Themes struct {
	store credentials.Store
}

func NewThemes(store credentials.Store) (*Themes, error) {
	if store == nil {
		return nil, errors.New("[NewThemes] store is required")
	}
	return &Themes{store: store}, nil
}

// Load returns the stored theme. Unset or unrecognised values read as the
// default.
func (t *Themes) Load(ctx context.Context) (Theme, error) {
	v, ok, err := t.store.Get(ctx, credentials.KeyTheme)
	if err != nil {
		return DefaultTheme, errors.Wrap(err, "Themes.Load")
	}
	if !ok {
		return DefaultTheme, nil
	}
	theme, err := ParseTheme(v)
	if err != nil {
		return DefaultTheme, nil
	}
	return theme, nil
}

func (t *Themes) Set(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return errors.Wrap(t.store.Set(ctx, credentials.KeyTheme, string(theme)), "Themes.Set")
}

// Toggle flips between dark and light and returns the new theme.
func (t *Themes) Toggle(ctx context.Context) (Theme, error) {
	current, err := t.Load(ctx)
	if err != nil {
		return current, err
	}
	next := Light
	if current == Light {
		next = Dark
	}
	if err := t.Set(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}
