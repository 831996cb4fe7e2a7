package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		selector string
		want     Family
	}{
		{"chromium", FamilyChromium},
		{"chrome", FamilyChromium},
		{"MSEdge", FamilyChromium},
		{"Firefox", FamilyFirefox},
		{"WEBKIT", FamilyWebKit},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := ParseFamily(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFamily_Unsupported(t *testing.T) {
	_, err := ParseFamily("opera")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedConfig))

	var unsupported *UnsupportedConfigError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "opera", unsupported.Value)
	assert.Contains(t, err.Error(), "opera")
}

func TestKind_Requires(t *testing.T) {
	_, ok := KindEnvironment.Requires()
	assert.False(t, ok)

	dep, ok := KindRuntime.Requires()
	assert.True(t, ok)
	assert.Equal(t, KindEnvironment, dep)

	dep, ok = KindSession.Requires()
	assert.True(t, ok)
	assert.Equal(t, KindRuntime, dep)
}

func TestKind_Durable(t *testing.T) {
	assert.True(t, KindEnvironment.Durable())
	assert.True(t, KindRuntime.Durable())
	assert.False(t, KindSession.Durable())
}

func TestForceNew_Kind(t *testing.T) {
	assert.Equal(t, KindEnvironment, NewEnvironmentInstance.Kind())
	assert.Equal(t, KindRuntime, NewRuntimeInstance.Kind())
	assert.Equal(t, "NEW_RUNTIME_INSTANCE", NewRuntimeInstance.String())
}

func TestPreconditionError(t *testing.T) {
	err := error(&PreconditionError{Kind: KindRuntime, Missing: KindEnvironment})
	assert.True(t, errors.Is(err, ErrPrecondition))
	assert.False(t, errors.Is(err, ErrUnsupportedConfig))
	assert.Equal(t, "cannot create runtime: environment not initialized", err.Error())
}
