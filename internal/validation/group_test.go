package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGroupSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"Valid", "cat-lovers", false},
		{"Valid Digits", "group-42", false},
		{"Uppercase", "CatLovers", true},
		{"Too Short", "ab", true},
		{"Leading Hyphen", "-cats", true},
		{"Trailing Hyphen", "cats-", true},
		{"Reserved", "new", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
