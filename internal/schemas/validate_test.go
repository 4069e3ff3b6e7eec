package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RecommendationsValid(t *testing.T) {
	doc := `{"recommendations":[{"role":"Frontend Developer","salary":"$80k-$120k","score":90,"tools":["React"],"jobs":[{"title":"React Developer","company":"TechSoft"}]}]}`

	assert.NoError(t, Validate(Recommendations, []byte(doc)))
}

func TestValidate_RecommendationsEmptyListValid(t *testing.T) {
	assert.NoError(t, Validate(Recommendations, []byte(`{"recommendations":[]}`)))
}

func TestValidate_RecommendationsMissingRole(t *testing.T) {
	err := Validate(Recommendations, []byte(`{"recommendations":[{"salary":"$1"}]}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, Recommendations, validationErr.Schema)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidate_RecommendationsMissingSalary(t *testing.T) {
	err := Validate(Recommendations, []byte(`{"recommendations":[{"role":"Frontend Developer"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salary")
}

func TestValidate_RecommendationsWrongType(t *testing.T) {
	err := Validate(Recommendations, []byte(`{"recommendations":[{"role":"A","tools":"React"}]}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "tools")
}

func TestValidate_RecommendationsMissingRoot(t *testing.T) {
	err := Validate(Recommendations, []byte(`{"careers":[]}`))
	require.Error(t, err)
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(Recommendations, []byte(`{not json`))
	require.Error(t, err)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "nope", loadErr.Name)
}

func TestValidate_HistoryListAcceptsBothRecommendationShapes(t *testing.T) {
	doc := `{"entries":[
		{"id":"1","skills":"go","recommendations":{"Backend Developer":88},"createdAt":"2024-01-01T00:00:00Z"},
		{"id":"2","skills":"react","recommendations":[{"role":"Frontend Developer"}]}
	],"total":2}`

	assert.NoError(t, Validate(HistoryList, []byte(doc)))
}
