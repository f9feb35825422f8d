package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"session id", "sess_01J9ZQ4M3V6X2Y8T7R5N0K1P2A", false},
		{"empty", "", true},
		{"path traversal", "../x", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id, "session_id", true)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProvider(t *testing.T) {
	assert.NoError(t, ValidateProvider("chatgpt"))
	assert.NoError(t, ValidateProvider("chat.example.com"))
	assert.Error(t, ValidateProvider("ChatGPT!"))
	assert.Error(t, ValidateProvider(""))
}

func TestValidateTitleAllowsBlank(t *testing.T) {
	assert.NoError(t, ValidateTitle(""))
	assert.NoError(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("x", MaxTitleLength+1)))
}

func TestValidatePrompt(t *testing.T) {
	assert.NoError(t, ValidatePrompt("hello"))
	assert.Error(t, ValidatePrompt(" \n\t"))
	assert.Error(t, ValidatePrompt("a\x00b"))
}

func TestValidateTemplateKey(t *testing.T) {
	assert.NoError(t, ValidateTemplateKey("code/review"))
	assert.NoError(t, ValidateTemplateKey("daily.standup"))
	assert.Error(t, ValidateTemplateKey("/leading"))
	assert.Error(t, ValidateTemplateKey("a//b"))
	assert.Error(t, ValidateTemplateKey("spaces here"))
}
