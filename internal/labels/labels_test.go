package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davrd/autorel/internal/errors"
)

func TestDefinition_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		def     Definition
		wantErr error
	}{
		{
			name:    "missing name rejected",
			def:     Definition{Name: "", ReleaseType: Patch},
			wantErr: errors.ErrMissingName,
		},
		{
			name:    "unknown release type rejected",
			def:     Definition{Name: "bug", ReleaseType: "urgent"},
			wantErr: errors.ErrInvalidReleaseType,
		},
		{
			name: "valid label accepted",
			def:  Definition{Name: "bug", ReleaseType: Patch},
		},
		{
			name: "empty release type accepted",
			def:  Definition{Name: "bug"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.def.Validate()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReleaseType_Valid(t *testing.T) {
	t.Parallel()

	for _, rt := range ReleaseTypes() {
		assert.True(t, rt.Valid(), string(rt))
	}
	assert.False(t, ReleaseType("").Valid())
	assert.False(t, ReleaseType("urgent").Valid())
}

func TestDefaults_AllValid(t *testing.T) {
	t.Parallel()

	defs := Defaults()
	assert.NotEmpty(t, defs)
	for _, d := range defs {
		assert.NoError(t, d.Validate(), d.Name)
		assert.False(t, d.Overwrite, "defaults never carry the overwrite flag")
	}
}

func TestEquates_IgnoresOverwrite(t *testing.T) {
	t.Parallel()

	a := Definition{Name: "patch", ReleaseType: Patch}
	b := a
	b.Overwrite = true
	assert.True(t, a.equates(b))

	b.Description = "different"
	assert.False(t, a.equates(b))
}
