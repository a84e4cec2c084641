package validation_test

import (
	"net/url"
	"testing"

	"github.com/phrazzld/tasks-api/internal/apperr"
	"github.com/phrazzld/tasks-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createShape struct {
	Body struct {
		Title       *string `json:"title"       validate:"required,min=1"`
		Description *string `json:"description" validate:"omitempty"`
		Assignee    *string `json:"assignee"    validate:"required,min=1"`
	}
}

func (createShape) ValidationMessages() map[string]string {
	return map[string]string{
		"body.title.min":    "title is not empty",
		"body.assignee.min": "assignee is not empty",
	}
}

type listShape struct {
	Query struct {
		Title  string `query:"title"  validate:"omitempty,min=3"`
		Status string `query:"status" validate:"omitempty,oneof=assigned completed"`
		Page   string `query:"page"   validate:"omitempty,number"`
	}
}

type completeShape struct {
	Params struct {
		ID string `param:"id" validate:"required"`
	}
}

type registerShape struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

func (registerShape) ValidationMessages() map[string]string {
	return map[string]string{"body.email.required": "email is not valid"}
}

func violations(t *testing.T, err error) []apperr.Detail {
	t.Helper()
	require.Error(t, err)
	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)
	return verr.Violations()
}

func TestValidateBody(t *testing.T) {
	v := validation.NewStructValidator()

	t.Run("valid", func(t *testing.T) {
		var shape createShape
		err := v.Validate(&shape, validation.Input{Body: []byte(`{"title":"Write","assignee":"bob"}`)})
		require.NoError(t, err)
		require.NotNil(t, shape.Body.Title)
		assert.Equal(t, "Write", *shape.Body.Title)
		assert.Nil(t, shape.Body.Description)
	})

	t.Run("missing fields reported in order", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`{}`)}))
		assert.Equal(t, []apperr.Detail{
			{Path: "body.title", Message: "title is required"},
			{Path: "body.assignee", Message: "assignee is required"},
		}, got)
	})

	t.Run("empty body treated as empty object", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{}))
		assert.Len(t, got, 2)
	})

	t.Run("empty strings use overrides", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`{"title":"","assignee":""}`)}))
		assert.Equal(t, []apperr.Detail{
			{Path: "body.title", Message: "title is not empty"},
			{Path: "body.assignee", Message: "assignee is not empty"},
		}, got)
	})

	t.Run("invalid json", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`{"title":`)}))
		assert.Equal(t, []apperr.Detail{{Path: "body", Message: "body must be valid JSON"}}, got)
	})

	t.Run("wrong json type", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`{"title":42,"assignee":"bob"}`)}))
		assert.Equal(t, []apperr.Detail{{Path: "body.title", Message: "title must be of type string"}}, got)
	})

	t.Run("wrong type alongside missing field", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`{"title":5}`)}))
		assert.Equal(t, []apperr.Detail{
			{Path: "body.title", Message: "title must be of type string"},
			{Path: "body.assignee", Message: "assignee is required"},
		}, got)
	})

	t.Run("every wrong type reported", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`{"title":5,"assignee":true}`)}))
		assert.Equal(t, []apperr.Detail{
			{Path: "body.title", Message: "title must be of type string"},
			{Path: "body.assignee", Message: "assignee must be of type string"},
		}, got)
	})

	t.Run("not an object", func(t *testing.T) {
		var shape createShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`[1,2]`)}))
		assert.Equal(t, []apperr.Detail{{Path: "body", Message: "body must be a JSON object"}}, got)
	})

	t.Run("email", func(t *testing.T) {
		var shape registerShape
		got := violations(t, v.Validate(&shape, validation.Input{Body: []byte(`{"email":"nope"}`)}))
		assert.Equal(t, []apperr.Detail{{Path: "body.email", Message: "email is not valid"}}, got)

		got = violations(t, v.Validate(&registerShape{}, validation.Input{Body: []byte(`{}`)}))
		assert.Equal(t, []apperr.Detail{{Path: "body.email", Message: "email is not valid"}}, got)
	})
}

func TestValidateQuery(t *testing.T) {
	v := validation.NewStructValidator()

	t.Run("valid with repeated key", func(t *testing.T) {
		var shape listShape
		q := url.Values{"title": {"report", "ignored"}, "status": {"completed"}, "page": {"2"}}
		require.NoError(t, v.Validate(&shape, validation.Input{Query: q}))
		assert.Equal(t, "report", shape.Query.Title)
		assert.Equal(t, "completed", shape.Query.Status)
		assert.Equal(t, "2", shape.Query.Page)
	})

	t.Run("all violations", func(t *testing.T) {
		var shape listShape
		q := url.Values{"title": {"ab"}, "status": {"archived"}, "page": {"-1"}}
		got := violations(t, v.Validate(&shape, validation.Input{Query: q}))
		assert.Equal(t, []apperr.Detail{
			{Path: "query.title", Message: "title must be at least 3 characters long"},
			{Path: "query.status", Message: `Invalid option: expected one of "assigned"|"completed"`},
			{Path: "query.page", Message: "page must be a positive integer"},
		}, got)
	})

	t.Run("absent optional fields", func(t *testing.T) {
		require.NoError(t, v.Validate(&listShape{}, validation.Input{}))
	})
}

func TestValidateParams(t *testing.T) {
	v := validation.NewStructValidator()

	var shape completeShape
	require.NoError(t, v.Validate(&shape, validation.Input{Params: map[string]string{"id": "abc"}}))
	assert.Equal(t, "abc", shape.Params.ID)

	got := violations(t, v.Validate(&completeShape{}, validation.Input{}))
	assert.Equal(t, []apperr.Detail{{Path: "params.id", Message: "id is required"}}, got)
}

type noteShape struct {
	Body struct {
		Text *string `json:"text" validate:"required"`
	}
	Query struct {
		Tag string `query:"tag" validate:"omitempty,oneof=a b"`
	}
	Params struct {
		ID string `param:"id" validate:"required"`
	}
}

func TestValidateAllRegionsTogether(t *testing.T) {
	v := validation.NewStructValidator()

	got := violations(t, v.Validate(&noteShape{}, validation.Input{
		Body:  []byte(`{"text":`),
		Query: url.Values{"tag": {"z"}},
	}))
	assert.Equal(t, []apperr.Detail{
		{Path: "body", Message: "body must be valid JSON"},
		{Path: "query.tag", Message: `Invalid option: expected one of "a"|"b"`},
		{Path: "params.id", Message: "id is required"},
	}, got)
}

func TestValidateRejectsNonPointer(t *testing.T) {
	v := validation.NewStructValidator()

	err := v.Validate(createShape{}, validation.Input{})
	require.Error(t, err)
	var verr *validation.Errors
	assert.NotErrorAs(t, err, &verr)
}

func TestErrorsNormalizeAsValidation(t *testing.T) {
	err := &validation.Errors{Items: []apperr.Detail{{Path: "body.title", Message: "title is required"}}}

	n := apperr.Normalize(err)

	assert.Equal(t, 400, n.StatusCode)
	assert.Equal(t, "Validation error", n.Message)
	assert.Equal(t, err.Items, n.Details)
	assert.Equal(t, "validation failed: body.title: title is required", err.Error())
}
