package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pable/go-match-stats/internal/model"
)

// App is the tracker's JSON configuration: team defaults and branding.
type App struct {
	Team     TeamConfig     `json:"team"`
	Match    MatchConfig    `json:"match"`
	Branding BrandingConfig `json:"branding"`
}

type TeamConfig struct {
	Name            string `json:"name"`
	DefaultTeam1    string `json:"defaultTeam1"`
	DefaultTeam2    string `json:"defaultTeam2"`
	DefaultOpponent string `json:"defaultOpponent"`
}

type MatchConfig struct {
	DefaultGameTime int  `json:"defaultGameTime"` // seconds
	TrackAttendance bool `json:"trackAttendance"`
}

type BrandingConfig struct {
	AppName        string `json:"appName"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl"`
}

// DefaultApp is used for any field the file leaves empty.
func DefaultApp() App {
	return App{
		Team: TeamConfig{
			Name:         "Our Team",
			DefaultTeam1: "Team 1",
			DefaultTeam2: "Team 2",
		},
		Match: MatchConfig{DefaultGameTime: model.DefaultGameTime, TrackAttendance: true},
		Branding: BrandingConfig{
			AppName:        "Match Stats",
			PrimaryColor:   "#2563eb",
			SecondaryColor: "#1e40af",
		},
	}
}

// LoadApp reads path and merges it over DefaultApp. A missing file yields the
// defaults; an empty path does too.
func LoadApp(path string) (App, error) {
	app := DefaultApp()
	if path == "" {
		return app, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return app, nil
	}
	if err != nil {
		return app, fmt.Errorf("read app config: %w", err)
	}
	var file App
	if err := json.Unmarshal(data, &file); err != nil {
		return app, fmt.Errorf("parse app config %s: %w", path, err)
	}
	return app.Merge(file), nil
}

// Merge overlays every non-zero field of o onto a.
func (a App) Merge(o App) App {
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	str(&a.Team.Name, o.Team.Name)
	str(&a.Team.DefaultTeam1, o.Team.DefaultTeam1)
	str(&a.Team.DefaultTeam2, o.Team.DefaultTeam2)
	str(&a.Team.DefaultOpponent, o.Team.DefaultOpponent)
	if o.Match.DefaultGameTime > 0 {
		a.Match.DefaultGameTime = o.Match.DefaultGameTime
	}
	str(&a.Branding.AppName, o.Branding.AppName)
	str(&a.Branding.PrimaryColor, o.Branding.PrimaryColor)
	str(&a.Branding.SecondaryColor, o.Branding.SecondaryColor)
	str(&a.Branding.LogoURL, o.Branding.LogoURL)
	return a
}
