package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		url   string
		owner string
		repo  string
		ok    bool
	}{
		{
			name:  "ssh form",
			url:   "git@github.com:acme/rocket.git",
			owner: "acme",
			repo:  "rocket",
			ok:    true,
		},
		{
			name:  "https form",
			url:   "https://github.com/acme/rocket.git",
			owner: "acme",
			repo:  "rocket",
			ok:    true,
		},
		{
			name:  "https without suffix",
			url:   "https://github.com/acme/rocket",
			owner: "acme",
			repo:  "rocket",
			ok:    true,
		},
		{
			name:  "trailing slash",
			url:   "https://github.com/acme/rocket/",
			owner: "acme",
			repo:  "rocket",
			ok:    true,
		},
		{
			name:  "enterprise host with subgroup keeps last two segments",
			url:   "https://git.corp.example/team/acme/rocket.git",
			owner: "acme",
			repo:  "rocket",
			ok:    true,
		},
		{
			name: "bare host",
			url:  "https://github.com",
			ok:   false,
		},
		{
			name: "no owner segment",
			url:  "git@github.com:rocket.git",
			ok:   false,
		},
		{
			name: "empty",
			url:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			owner, repo, ok := ParseRemote(tt.url)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.owner, owner)
				assert.Equal(t, tt.repo, repo)
			}
		})
	}
}

func TestIsRepo_NonRepoDirectory(t *testing.T) {
	t.Parallel()
	assert.False(t, IsRepo(t.TempDir()))
}

func TestRemote_NonRepoDirectory(t *testing.T) {
	t.Parallel()
	_, _, ok := Remote(t.TempDir())
	assert.False(t, ok)
}
