package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDoc_Routes(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	routes := []struct {
		path   string
		method string
	}{
		{"/buckets", "get"},
		{"/buckets/{bucket}/reconcile", "get"},
		{"/buckets/{bucket}/reconcile/key", "get"},
		{"/objects/{bucket}", "get"},
		{"/objects/{bucket}", "post"},
		{"/objects/{bucket}", "delete"},
		{"/objects/{bucket}/raw", "put"},
		{"/objects/{bucket}/url", "get"},
	}

	for _, r := range routes {
		assert.Contains(t, parsed.Paths[r.path], r.method, r.path)
	}
	assert.Len(t, parsed.Paths, 6)
}
