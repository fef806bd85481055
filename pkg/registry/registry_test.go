package registry

import (
	"path/filepath"
	"testing"

	"campus-gig-workers/internal/common/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := &ActivityRegistry{
		Version: "1",
		Activities: []Activity{
			{TaskType: "lock-escrow", Category: "escrow", ErrorCodes: []string{"INVALID_GIG_STATE"}},
			{
				TaskType: "get-balance",
				Category: "wallet",
				InputSchema: validation.JSONSchema{
					Type:     "object",
					Required: []string{"callerId"},
				},
			},
		},
	}

	require.NoError(t, reg.Save(path))
	loaded, err := LoadRegistry(path)
	require.NoError(t, err)

	require.Len(t, loaded.Activities, 2)
	assert.Equal(t, "get-balance", loaded.Activities[0].TaskType)
	assert.Equal(t, []string{"callerId"}, loaded.Activities[0].InputSchema.Required)

	a, ok := loaded.Find("lock-escrow")
	require.True(t, ok)
	assert.Equal(t, []string{"INVALID_GIG_STATE"}, a.ErrorCodes)

	_, ok = loaded.Find("email-send")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&ActivityRegistry{}).Validate())
	assert.ErrorContains(t, (&ActivityRegistry{Activities: []Activity{{}}}).Validate(), "no task type")
	assert.ErrorContains(t, (&ActivityRegistry{Activities: []Activity{
		{TaskType: "refund-escrow"}, {TaskType: "refund-escrow"},
	}}).Validate(), "duplicate")
}
