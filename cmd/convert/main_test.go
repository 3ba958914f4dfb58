package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemLocale(t *testing.T) {
	tests := []struct {
		name    string
		lcAll   string
		numeric string
		lang    string
		want    string
	}{
		{name: "Nothing set", want: "en-US"},
		{name: "LANG with encoding", lang: "fi_FI.UTF-8", want: "fi-FI"},
		{name: "LC_ALL wins", lcAll: "it_IT.UTF-8", lang: "fi_FI.UTF-8", want: "it-IT"},
		{name: "POSIX skipped", lcAll: "POSIX", numeric: "de_CH", want: "de-CH"},
		{name: "Unsupported skipped", lcAll: "xx_YY.UTF-8", lang: "es_ES.UTF-8", want: "es-ES"},
		{name: "Unsupported only", lang: "de_LI.UTF-8", want: "en-US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_NUMERIC", tt.numeric)
			t.Setenv("LANG", tt.lang)
			assert.Equal(t, tt.want, systemLocale())
		})
	}
}

func TestRootCmd_RejectsUnsupportedLocale(t *testing.T) {
	prev := locale
	t.Cleanup(func() { locale = prev })

	locale = "xx-YY"
	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	assert.ErrorContains(t, err, "unsupported locale")

	locale = "de-CH"
	assert.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
}
