package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Name   string `validate:"required,min=3"`
	Email  string `validate:"required,email"`
	Amount string `validate:"required,money"`
}

func TestStructValid(t *testing.T) {
	err := Struct(&sampleForm{Name: "Grace", Email: "grace@example.com", Amount: "2000000"})
	assert.NoError(t, err)
}

func TestStructCollectsAllFieldErrors(t *testing.T) {
	err := Struct(&sampleForm{Name: "G", Email: "nope", Amount: "-5"})

	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 3)

	assert.Equal(t, "name", verrs[0].Field)
	assert.Equal(t, "email", verrs[1].Field)
	assert.Equal(t, "amount", verrs[2].Field)
	assert.Contains(t, verrs[2].Message, "positive amount")
}

func TestMoneyRule(t *testing.T) {
	tests := []struct {
		amount string
		ok     bool
	}{
		{"2000000", true},
		{"0.5", true},
		{" 1500 ", true},
		{"0", false},
		{"-100", false},
		{"ten thousand", false},
		{"", false},
	}

	for _, tt := range tests {
		err := Struct(&sampleForm{Name: "Grace", Email: "grace@example.com", Amount: tt.amount})
		if tt.ok {
			assert.NoError(t, err, "amount %q", tt.amount)
		} else {
			assert.Error(t, err, "amount %q", tt.amount)
		}
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 2000000.0, ParseAmount("2000000"))
	assert.Equal(t, 1500.0, ParseAmount(" 1500 "))
	assert.Equal(t, 0.0, ParseAmount("junk"))
}
