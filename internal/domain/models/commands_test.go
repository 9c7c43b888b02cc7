package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	cmd := ParseCommand("/City 2024-01-01 150 Capital City")
	assert.Equal(t, CommandCity, cmd.Type)
	assert.Equal(t, []string{"2024-01-01", "150", "Capital", "City"}, cmd.Args)

	assert.Equal(t, CommandIndustry, ParseCommand("industry 2024-01-01 weight=3").Type)
	assert.Equal(t, CommandReport, ParseCommand("/report").Type)
	assert.Equal(t, CommandUnknown, ParseCommand("   ").Type)
	assert.Equal(t, CommandUnknown, ParseCommand("/eggs 12").Type)
}
