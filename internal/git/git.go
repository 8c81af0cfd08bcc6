// Package git reads identity hints from a local git checkout. All lookups
// degrade to empty results when git is unavailable or the directory is not
// a repository; setup falls back to prompting.
package git

import (
	"os/exec"
	"strings"

	"github.com/davrd/autorel/internal/errors"
)

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	out, err := output(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Remote returns the owner and repository name parsed from the origin
// remote, when one exists and is parseable.
func Remote(dir string) (owner, repo string, ok bool) {
	url, err := output(dir, "remote", "get-url", "origin")
	if err != nil || url == "" {
		return "", "", false
	}
	return ParseRemote(url)
}

// ParseRemote extracts the owner and repository name from a remote URL.
// It understands SSH (git@host:owner/repo.git) and scheme-prefixed
// (https://host/owner/repo.git) forms.
func ParseRemote(url string) (owner, repo string, ok bool) {
	path := url
	if i := strings.Index(url, "://"); i >= 0 {
		path = url[i+3:]
		j := strings.Index(path, "/")
		if j < 0 {
			return "", "", false
		}
		path = path[j+1:]
	} else if strings.HasPrefix(url, "git@") {
		j := strings.Index(url, ":")
		if j < 0 {
			return "", "", false
		}
		path = url[j+1:]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner, repo = parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

// Author returns user.name and user.email from git config. Missing values
// come back empty.
func Author(dir string) (name, email string) {
	name, _ = output(dir, "config", "--get", "user.name")
	email, _ = output(dir, "config", "--get", "user.email")
	return name, email
}

func output(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, "running git")
	}
	return strings.TrimSpace(string(out)), nil
}
