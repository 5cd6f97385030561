package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetToolDefinitions(t *testing.T) {
	var names []string
	for _, tool := range GetToolDefinitions() {
		names = append(names, tool.Name)
	}

	assert.Equal(t, []string{
		"image_load",
		"image_dimensions",
		"staff_edge_mask",
		"staff_detect",
		"staff_render",
		"kalman_simulate",
	}, names)
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Description)
			assert.Equal(t, "object", tool.InputSchema["type"])

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			require.True(t, ok, "properties should be a map")

			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				assert.Contains(t, props, name, "required field must be declared")
			}

			_, err := json.Marshal(tool)
			assert.NoError(t, err)
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "kalman_simulate" {
			assert.NotContains(t, tool.InputSchema, "required")
			continue
		}
		assert.Equal(t, []string{"path"}, tool.InputSchema["required"], tool.Name)
	}
}

func TestToolDefinitions_TrackingOptions(t *testing.T) {
	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		tools[tool.Name] = tool
	}

	detect := tools["staff_detect"].InputSchema["properties"].(map[string]interface{})
	render := tools["staff_render"].InputSchema["properties"].(map[string]interface{})

	for _, name := range []string{"threshold", "tolerance", "min_length", "region"} {
		assert.Contains(t, detect, name)
		assert.Contains(t, render, name)
	}
	assert.Contains(t, detect, "include_history")
	assert.NotContains(t, render, "include_history")
}
