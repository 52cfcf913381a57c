package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string    `json:"title" validate:"required,max=5"`
	Email string    `json:"email" validate:"omitempty,email"`
	Tags  []string  `json:"tags" validate:"required,min=1,dive,uuid"`
	Note  *string   `json:"note,omitempty" validate:"omitempty,min=1"`
	Refs  *[]string `json:"refs" validate:"omitempty,min=1,dive,uuid"`
}

func TestStruct_Valid(t *testing.T) {
	note := "x"
	err := Struct(sample{
		Title: "hello",
		Tags:  []string{"6f1c3f5e-8a3c-4f4e-9a53-0c2a5f2d9b11"},
		Note:  &note,
	})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{})

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"tags", "title"}, verrs.Fields())
	assert.Equal(t, "required", verrs["title"])
}

func TestStruct_Rules(t *testing.T) {
	empty := ""
	noRefs := []string{}
	badRefs := []string{"nope"}

	tests := []struct {
		name  string
		in    sample
		field string
		msg   string
	}{
		{"too long", sample{Title: "toolong", Tags: []string{"6f1c3f5e-8a3c-4f4e-9a53-0c2a5f2d9b11"}}, "title", "must be at most 5 characters"},
		{"bad email", sample{Title: "a", Email: "nope", Tags: []string{"6f1c3f5e-8a3c-4f4e-9a53-0c2a5f2d9b11"}}, "email", "must be a valid email address"},
		{"empty slice", sample{Title: "a", Tags: []string{}}, "tags", "must contain at least 1 item(s)"},
		{"bad element", sample{Title: "a", Tags: []string{"1"}}, "tags", "must contain valid identifiers"},
		{"present but empty pointer", sample{Title: "a", Tags: []string{"6f1c3f5e-8a3c-4f4e-9a53-0c2a5f2d9b11"}, Note: &empty}, "note", "must be at least 1 characters"},
		{"present but empty slice pointer", sample{Title: "a", Tags: []string{"6f1c3f5e-8a3c-4f4e-9a53-0c2a5f2d9b11"}, Refs: &noRefs}, "refs", "must contain at least 1 item(s)"},
		{"bad slice pointer element", sample{Title: "a", Tags: []string{"6f1c3f5e-8a3c-4f4e-9a53-0c2a5f2d9b11"}, Refs: &badRefs}, "refs", "must contain valid identifiers"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			var verrs Errors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Equal(t, []string{tc.field}, verrs.Fields())
			assert.Equal(t, tc.msg, verrs[tc.field])
		})
	}
}

func TestErrors(t *testing.T) {
	e := Errors{}
	e.Add("title", "required")
	e.Add("title", "ignored")
	e.Add("content", "required")

	assert.Equal(t, "required", e["title"])
	assert.Equal(t, "validation failed: content: required, title: required", e.Error())
}
