package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func thresholdProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Luma difference between the rows above and below a pixel that marks it as an edge (0-255). Defaults to the server's configured threshold.",
		"minimum":     0,
		"maximum":     255,
	}
}

func trackingProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":      pathProperty(),
		"threshold": thresholdProperty(),
		"tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Largest distance in rows between a cluster center and a staff's predicted position for them to match. Defaults to the server's configured tolerance.",
		},
		"min_length": map[string]interface{}{
			"type":        "integer",
			"description": "Staves observed in fewer columns are left out of the result.",
			"minimum":     0,
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional region to scan. Columns in the result are relative to x1.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	detectProps := trackingProperties()
	detectProps["include_history"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include every column observation for each staff.",
		"default":     false,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent staff operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Staff Tracking
		{
			Name:        "staff_edge_mask",
			Description: "Compute the horizontal edge mask the staff tracker scans and return it as base64-encoded PNG. Edge pixels are black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"threshold": thresholdProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "staff_detect",
			Description: "Track staff lines across the image column by column with a Kalman filter per line. Returns each staff's column span, observation count and final position and slope.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "staff_render",
			Description: "Track staff lines and return the image with each staff's observed pixels and filtered estimate drawn over it, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": trackingProperties(),
				"required":   []string{"path"},
			},
		},

		// Filter Tuning
		{
			Name:        "kalman_simulate",
			Description: "Run the staff Kalman filter over a synthetic noisy line and return error statistics with a PNG plot of measured, filtered and true rows.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Random seed. Default 1",
						"default":     1,
					},
					"length": map[string]interface{}{
						"type":        "integer",
						"description": "Number of columns to simulate. Default 500",
						"default":     500,
					},
					"noise": map[string]interface{}{
						"type":        "integer",
						"description": "Largest measurement jitter in rows. Default 3",
						"default":     3,
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
