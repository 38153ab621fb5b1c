package docs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"pet-care-planner/docs"
)

var routeLine = regexp.MustCompile(`(?m)^// @Router (\S+) \[(\w+)\]$`)

type openAPI struct {
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage           `json:"definitions"`
}

func readDoc(t *testing.T) (openAPI, string) {
	t.Helper()
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc openAPI
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc, raw
}

func TestDoc_CoversEveryRoute(t *testing.T) {
	doc, _ := readDoc(t)

	files, err := filepath.Glob("../internal/domain/*/handler.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	routes := 0
	for _, f := range files {
		src, err := os.ReadFile(f)
		require.NoError(t, err)

		for _, m := range routeLine.FindAllStringSubmatch(string(src), -1) {
			routes++
			path, method := m[1], strings.ToLower(m[2])
			ops, ok := doc.Paths[path]
			if assert.True(t, ok, "%s: falta %s", f, path) {
				assert.Contains(t, ops, method, "%s: falta %s %s", f, method, path)
			}
		}
	}

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, routes, documented)
}

func TestDoc_RefsResolve(t *testing.T) {
	doc, raw := readDoc(t)
	require.NotEmpty(t, doc.Definitions)

	refs := regexp.MustCompile(`"\$ref": "#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, m := range refs {
		assert.Contains(t, doc.Definitions, m[1])
	}
}

func TestDoc_Info(t *testing.T) {
	_, raw := readDoc(t)

	var info struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		BasePath string `json:"basePath"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &info))
	assert.Equal(t, "Pet Care Planner API", info.Info.Title)
	assert.Equal(t, "1.0", info.Info.Version)
	assert.Equal(t, "/", info.BasePath)
}
