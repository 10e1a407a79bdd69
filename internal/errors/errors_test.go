package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	t.Parallel()

	err := Newf("report %s not found", "abc").
		Component("report-store").
		Category(CategoryNotFound).
		Context("report_id", "abc").
		Build()

	var ee *EnhancedError
	require.True(t, As(err, &ee), "expected an EnhancedError")
	assert.Equal(t, "report abc not found", err.Error())
	assert.Equal(t, "report-store", ee.GetComponent())
	assert.Equal(t, string(CategoryNotFound), ee.GetCategory())

	v, ok := ee.GetContext("report_id")
	require.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestCategoryHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category ErrorCategory
		check    func(error) bool
	}{
		{"validation", CategoryValidation, IsValidation},
		{"not found", CategoryNotFound, IsNotFound},
		{"image decode", CategoryImageDecode, IsImageDecode},
		{"image source", CategoryImageSource, IsImageSource},
		{"persistence", CategoryPersistence, IsPersistence},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Newf("boom").Category(tt.category).Build()
			assert.True(t, tt.check(err))
			// A generic error must not match any specific category.
			generic := Newf("boom").Build()
			assert.False(t, tt.check(generic))
		})
	}
}

func TestBuildDefaultsToGenericCategory(t *testing.T) {
	t.Parallel()

	err := Newf("plain failure").Build()
	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, string(CategoryGeneric), ee.GetCategory())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
}

func TestUnwrapPreservesSentinel(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("sentinel")
	err := New(sentinel).Category(CategoryPersistence).Build()
	assert.True(t, Is(err, sentinel))
}
