package client

import (
	"testing"

	"github.com/lightningsoon/KeyMinder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGeneratePasswordCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		options models.GeneratorOptions
	}{
		{
			name:    "defaults",
			args:    []string{"generate", "password"},
			options: models.DefaultGeneratorOptions(),
		},
		{
			name: "all charsets",
			args: []string{"gen", "password", "-l", "32", "--uppercase", "--symbols"},
			options: models.GeneratorOptions{
				Length:           32,
				IncludeUppercase: true,
				IncludeLowercase: true,
				IncludeNumbers:   true,
				IncludeSymbols:   true,
			},
		},
		{
			name:    "numbers off",
			args:    []string{"generate", "password", "--numbers=false"},
			options: models.GeneratorOptions{Length: 12, IncludeLowercase: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppFixture(t)
			f.server.EXPECT().GeneratePassword(gomock.Any(), tt.options).Return("generated-value", nil)

			require.NoError(t, f.run(tt.args...))
			assert.Equal(t, "generated-value\n", f.out.String())
		})
	}
}

func TestGeneratePassphraseCommand(t *testing.T) {
	f := newAppFixture(t)
	f.server.EXPECT().GeneratePassphrase(gomock.Any(), models.PassphraseOptions{Words: 4, Separator: "."}).
		Return("apple.river.stone.cloud", nil)

	require.NoError(t, f.run("generate", "passphrase", "--words", "4", "--separator", "."))
	assert.Equal(t, "apple.river.stone.cloud\n", f.out.String())
}

func TestGeneratePassphraseCommand_Copy(t *testing.T) {
	f := newAppFixture(t)
	f.server.EXPECT().GeneratePassphrase(gomock.Any(), models.DefaultPassphraseOptions()).
		Return("a-b-c-d-e-f", nil)

	require.NoError(t, f.run("generate", "passphrase", "--copy"))
	assert.Equal(t, "a-b-c-d-e-f", f.clipboard.text)
	assert.NotContains(t, f.out.String(), "a-b-c-d-e-f")
}
