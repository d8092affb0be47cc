package storage

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"prism-board/domain"
)

// PreferenceStore persists the active board and the UI chrome flags.
type PreferenceStore struct {
	kv KV
}

// NewPreferenceStore returns a preference store over kv.
func NewPreferenceStore(kv KV) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

// ActiveBoard returns the last selected board; ok is false when none was saved
// or the stored value is unreadable.
func (p *PreferenceStore) ActiveBoard(ctx context.Context) (string, bool, error) {
	raw, ok, err := p.kv.Get(ctx, KeyActiveBoard)
	if err != nil || !ok {
		return "", false, err
	}
	var name string
	if err := sonic.UnmarshalString(raw, &name); err != nil {
		return "", false, nil
	}
	return name, name != "", nil
}

// SetActiveBoard stores name as a JSON string.
func (p *PreferenceStore) SetActiveBoard(ctx context.Context, name string) error {
	data, err := sonic.MarshalString(name)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, KeyActiveBoard, data); err != nil {
		return fmt.Errorf("save active board: %w", err)
	}
	return nil
}

// Preferences reads the sidebar and theme flags. Missing keys read as false.
func (p *PreferenceStore) Preferences(ctx context.Context) (domain.Preferences, error) {
	sidebar, _, err := p.kv.Get(ctx, KeyShowSidebar)
	if err != nil {
		return domain.Preferences{}, err
	}
	theme, _, err := p.kv.Get(ctx, KeyLightTheme)
	if err != nil {
		return domain.Preferences{}, err
	}
	return domain.Preferences{
		ShowSidebar: sidebar == "true",
		LightTheme:  theme == "enabled",
	}, nil
}

// SetShowSidebar stores the sidebar flag as "true" or "false".
func (p *PreferenceStore) SetShowSidebar(ctx context.Context, show bool) error {
	v := "false"
	if show {
		v = "true"
	}
	return p.kv.Set(ctx, KeyShowSidebar, v)
}

// SetLightTheme stores the theme flag as "enabled" or "disabled".
func (p *PreferenceStore) SetLightTheme(ctx context.Context, light bool) error {
	v := "disabled"
	if light {
		v = "enabled"
	}
	return p.kv.Set(ctx, KeyLightTheme, v)
}
