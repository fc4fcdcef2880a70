package typescript

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/typereflect/internal/tsrun"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/typegen"
)

// render generates the declarations and validators of set into one module.
func render(t *testing.T, set *schema.Set) string {
	t.Helper()
	content, _, err := typegen.NewPipeline(set).Render(typegen.Destination{
		Path:     "test.ts",
		Emitters: []typegen.Emitter{NewTypes(), NewValidators()},
	})
	require.NoError(t, err)
	return string(content)
}

// load renders set and evaluates the result.
func load(t *testing.T, set *schema.Set) (*tsrun.Module, string) {
	t.Helper()
	source := render(t, set)
	m, err := tsrun.Load(source)
	require.NoError(t, err, source)
	return m, source
}

type validationCase struct {
	name    string
	input   string
	wantErr string
}

// runValidations checks each input against entity.validate; an empty wantErr expects success.
func runValidations(t *testing.T, m *tsrun.Module, entity string, cases []validationCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Validate(entity, tc.input)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var verr *tsrun.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.wantErr, verr.Message)
		})
	}
}
