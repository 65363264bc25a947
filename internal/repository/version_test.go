package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{name: "full", input: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3}},
		{name: "two components", input: "1.0", want: Version{Major: 1}},
		{name: "single component", input: "2", want: Version{Major: 2}},
		{name: "pre-release", input: "1.0.0-beta", want: Version{Major: 1, PreRelease: "beta"}},
		{name: "surrounding spaces", input: " 1.0.0 ", want: Version{Major: 1}},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "one.two", wantErr: true},
		{name: "negative", input: "1.-2.0", wantErr: true},
		{name: "too many components", input: "1.2.3.4", wantErr: true},
		{name: "dangling pre-release", input: "1.0.0-", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	mustParse := func(s string) Version {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, 0, mustParse("1.0.0").Compare(mustParse("1.0")))
	assert.Equal(t, -1, mustParse("1.0.0").Compare(mustParse("1.0.1")))
	assert.Equal(t, 1, mustParse("2.0.0").Compare(mustParse("1.9.9")))
	assert.Equal(t, -1, mustParse("1.0.0-beta").Compare(mustParse("1.0.0")), "pre-release sorts before release")

	assert.True(t, mustParse("1.1.0").NewerThan(mustParse("1.0.9")))
	assert.False(t, mustParse("1.0.0").NewerThan(mustParse("1.0.0")))
}

func TestVersion_CompatibleWith(t *testing.T) {
	assert.True(t, Version{Major: 1, Minor: 4}.CompatibleWith(CurrentVersion))
	assert.False(t, Version{Major: 2}.CompatibleWith(CurrentVersion))
}

func TestVersion_String(t *testing.T) {
	assert.Equal(t, "1.0.0", CurrentVersion.String())
	assert.Equal(t, "1.2.3-rc1", Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "rc1"}.String())
}
