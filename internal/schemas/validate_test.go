package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ezresume/internal/types"
)

func TestValidateResumeData_DefaultDocument(t *testing.T) {
	doc, err := json.Marshal(types.DefaultResumeData("Untitled Resume"))
	require.NoError(t, err)

	assert.NoError(t, ValidateResumeData(doc))
}

func TestValidateResumeData_PopulatedDocument(t *testing.T) {
	data := types.DefaultResumeData("Backend Engineer")
	data.Contact = types.ContactInfo{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "555-0100",
		Location: "Portland, OR",
		LinkedIn: "https://linkedin.com/in/janedoe",
	}
	data.Summary = "Backend engineer with eight years of Go experience."
	data.Experience = []types.ResumeExperience{
		{
			ID:         "exp-1",
			Company:    "Acme",
			Position:   "Engineer",
			StartDate:  "2020-01",
			Current:    true,
			Highlights: []string{"Led migration to Postgres 16"},
		},
	}
	data.Skills = []types.ResumeSkill{
		{ID: "sk-1", Name: "Go", Level: "expert", Category: "technical"},
	}

	doc, err := json.Marshal(data)
	require.NoError(t, err)

	assert.NoError(t, ValidateResumeData(doc))
}

func TestValidateResumeData_MissingRequiredField(t *testing.T) {
	err := ValidateResumeData([]byte(`{"title": "Only A Title"}`))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateResumeData_WrongType(t *testing.T) {
	data := types.DefaultResumeData("Untitled Resume")
	doc, err := json.Marshal(data)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(doc, &m))
	m["experience"] = "not an array"
	doc, err = json.Marshal(m)
	require.NoError(t, err)

	valErr := ValidateResumeData(doc)
	require.Error(t, valErr)

	validationErr, ok := valErr.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateResumeData_UnknownField(t *testing.T) {
	data := types.DefaultResumeData("Untitled Resume")
	doc, err := json.Marshal(data)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(doc, &m))
	m["legacy_field"] = true
	doc, err = json.Marshal(m)
	require.NoError(t, err)

	assert.Error(t, ValidateResumeData(doc))
}

func TestValidateResumeData_MalformedJSON(t *testing.T) {
	err := ValidateResumeData([]byte("{ invalid json }"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "ok"}`))

	err := ValidateJSONString(schema, `{}`)
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, validationErr.Errors, 1)
}
