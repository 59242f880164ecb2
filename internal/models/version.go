package models

import (
	"fmt"
	"time"
)

// Version is a user-named, permanently retained checkpoint of a project's
// state, labelled with a semantic version. The publish fields are inert
// placeholders for a future share feature.
type Version struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SemVer    SemVer    `json:"semver"`
	Version   string    `json:"version"`
	State     *State    `json:"state"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	IsPublished   bool   `json:"is_published,omitempty"`
	DownloadCount int    `json:"download_count,omitempty"`
	NetworkID     string `json:"network_id,omitempty"`
}

// SemVer is a major.minor.patch triplet.
type SemVer struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 ordering triplets lexicographically.
func (v SemVer) Compare(o SemVer) int {
	pairs := [3][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Increment names the component bumped by SuggestNext.
type Increment string

const (
	IncrementMajor Increment = "major"
	IncrementMinor Increment = "minor"
	IncrementPatch Increment = "patch"
)

// Bump returns the next version for the given increment, resetting all
// lower-order components to zero.
func (v SemVer) Bump(inc Increment) SemVer {
	switch inc {
	case IncrementMajor:
		return SemVer{Major: v.Major + 1}
	case IncrementMinor:
		return SemVer{Major: v.Major, Minor: v.Minor + 1}
	default:
		return SemVer{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
