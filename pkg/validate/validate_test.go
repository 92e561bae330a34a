package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hacklabconnect/pkg/domain-errors"
)

func TestRequiredFields(t *testing.T) {
	schema := Schema{Required: []string{"title", "content"}}

	t.Run("all present", func(t *testing.T) {
		err := schema.Check(Fields{"title": "hi", "content": "body"})
		assert.NoError(t, err)
	})

	t.Run("whitespace counts as missing", func(t *testing.T) {
		err := schema.Check(Fields{"title": "   ", "content": "body"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("all failures reported at once", func(t *testing.T) {
		err := schema.Check(Fields{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "content")
		assert.Contains(t, err.Error(), "title")
	})
}

func TestOneOfGroups(t *testing.T) {
	schema := Schema{
		Required: []string{"title"},
		OneOf:    [][]string{{"url", "fileRef"}},
	}

	t.Run("exactly one set", func(t *testing.T) {
		assert.NoError(t, schema.Check(Fields{"title": "t", "url": "https://example.com"}))
		assert.NoError(t, schema.Check(Fields{"title": "t", "fileRef": "uploads/a.pdf"}))
	})

	t.Run("neither set", func(t *testing.T) {
		err := schema.Check(Fields{"title": "t"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url|fileRef")
	})

	t.Run("both set", func(t *testing.T) {
		err := schema.Check(Fields{"title": "t", "url": "https://example.com", "fileRef": "uploads/a.pdf"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
