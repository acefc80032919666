// Package update tells whether a newer turbo release is out.
package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	latestReleaseURL = "https://api.github.com/repos/charmbracelet/turbo/releases/latest"
	userAgent        = "turbo/1.0"
)

// Default asks GitHub for the latest release.
var Default Client = &GitHub{URL: latestReleaseURL}

// Info compares the running version with the latest release.
type Info struct {
	Current string
	Latest  string
	URL     string
}

// Pseudo-versions recorded by `go install`, like
// v0.0.0-0.20251231235959-06c807842604.
var pseudoVersion = regexp.MustCompile(`^v?\d+\.\d+\.\d+-\d+\.\d{14}-[0-9a-f]{12}$`)

// IsDevelopment reports whether the running binary was built from a
// checkout rather than a release.
func (i Info) IsDevelopment() bool {
	switch i.Current {
	case "devel", "unknown", "":
		return true
	}
	return strings.Contains(i.Current, "dirty") || pseudoVersion.MatchString(i.Current)
}

// Available reports whether Latest should replace Current. A stable release
// always beats a pre-release, and a pre-release is never offered to someone
// on a stable one.
func (i Info) Available() bool {
	currentPre := strings.Contains(i.Current, "-")
	latestPre := strings.Contains(i.Latest, "-")
	switch {
	case currentPre && !latestPre:
		return true
	case latestPre && !currentPre:
		return false
	}
	return i.Current != i.Latest
}

// Notice returns the line shown to the user, or "" when there is nothing to
// say.
func (i Info) Notice() string {
	if i.IsDevelopment() || !i.Available() {
		return ""
	}
	return fmt.Sprintf("turbo v%s is out (you have v%s)", i.Latest, i.Current)
}

// Check asks client for the latest release.
func Check(ctx context.Context, current string, client Client) (Info, error) {
	info := Info{
		Current: strings.TrimPrefix(current, "v"),
		Latest:  strings.TrimPrefix(current, "v"),
	}

	release, err := client.Latest(ctx)
	if err != nil {
		return info, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	info.Latest = strings.TrimPrefix(release.TagName, "v")
	info.URL = release.HTMLURL
	return info, nil
}

// Release is the part of a GitHub release we care about.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Client finds the latest release.
type Client interface {
	Latest(ctx context.Context) (*Release, error)
}

// GitHub reads the latest release from the GitHub API at URL.
type GitHub struct {
	URL    string
	Client *http.Client
}

// Latest implements [Client].
func (g *GitHub) Latest(ctx context.Context) (*Release, error) {
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("github api returned status %d: %s", resp.StatusCode, string(body))
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}
	return &release, nil
}
