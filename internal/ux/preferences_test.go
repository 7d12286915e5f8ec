package ux

import (
	"testing"
)

func TestManager_DismissalSurvivesReload(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	m := NewManager(dir)
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.IsBannerDismissed(BannerEmailVerification) {
		t.Fatal("Fresh install must not have dismissed banners")
	}
	if err := m.DismissBanner(BannerEmailVerification); err != nil {
		t.Fatalf("DismissBanner failed: %v", err)
	}

	// Simulate a full restart.
	reloaded := NewManager(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if !reloaded.IsBannerDismissed(BannerEmailVerification) {
		t.Error("Banner dismissal must survive a reload")
	}
	if reloaded.IsBannerDismissed(BannerPlanUpgrade) {
		t.Error("Dismissal must be per-banner")
	}
}

func TestManager_LoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	if err := m.Load(); err != nil {
		t.Fatalf("Load of missing file must create defaults: %v", err)
	}
	prefs := m.Get()
	if prefs.Version != PreferencesVersion {
		t.Errorf("Expected version %s, got %s", PreferencesVersion, prefs.Version)
	}
}

func TestManager_DismissIsIdempotent(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	if err := m.DismissBanner("x"); err != nil {
		t.Fatal(err)
	}
	stamp := m.Get().DismissedBanners["x"]
	if err := m.DismissBanner("x"); err != nil {
		t.Fatal(err)
	}
	if m.Get().DismissedBanners["x"] != stamp {
		t.Error("Re-dismissing must not rewrite the original timestamp")
	}
}

func TestManager_ThemeAndTabPersist(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	m := NewManager(dir)
	if err := m.SetTheme("dark"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetDefaultTab("messages"); err != nil {
		t.Fatal(err)
	}

	reloaded := NewManager(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get().Theme; got != "dark" {
		t.Errorf("Theme not persisted: %q", got)
	}
	if got := reloaded.Get().DefaultTab; got != "messages" {
		t.Errorf("DefaultTab not persisted: %q", got)
	}
}
