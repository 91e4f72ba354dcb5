package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func booleanProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Background Sampling
		{
			Name:        "background_sample",
			Description: "Pick a random background image under a directory tree and write it to a file. Unreadable files are skipped and another candidate is drawn.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"root":      stringProp("Directory searched recursively for .jpg, .png and .bmp files. Defaults to the configured background root"),
					"grayscale": booleanProp("Decode as single-channel grayscale. Defaults to the configured mode"),
					"out":       stringProp("Output file path; the extension selects the encoder (.png, .jpg, .bmp)"),
				},
				"required": []string{"out"},
			},
		},
		{
			Name:        "background_crop",
			Description: "Cut a random rectangle out of a random background image, resize it with a randomly chosen interpolation and write it to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"root":      stringProp("Directory searched recursively for background images. Defaults to the configured background root"),
					"grayscale": booleanProp("Decode as single-channel grayscale. Defaults to the configured mode"),
					"width":     integerProp("Output width in pixels. Defaults to the configured crop width"),
					"height":    integerProp("Output height in pixels. Defaults to the configured crop height"),
					"out":       stringProp("Output file path"),
				},
				"required": []string{"out"},
			},
		},

		// Composition
		{
			Name:        "image_collage",
			Description: "Tile images row-major into a near-square grid with a margin around every cell and write the canvas to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Image files in grid order",
					},
					"grayscale": booleanProp("Load every image as grayscale"),
					"margin":    integerProp("Gap in pixels between cells. Defaults to the configured margin"),
					"fill":      stringProp("Canvas color as #rgb or #rrggbb. Defaults to the configured fill"),
					"out":       stringProp("Output file path"),
				},
				"required": []string{"paths", "out"},
			},
		},
		{
			Name:        "image_overlay",
			Description: "Project a foreground image onto a background so that its corners land on four target points, and write the composite to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"background": stringProp("Background image file"),
					"foreground": stringProp("Foreground image file"),
					"corners": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":     "array",
							"items":    map[string]interface{}{"type": "number"},
							"minItems": 2,
							"maxItems": 2,
						},
						"minItems":    4,
						"maxItems":    4,
						"description": "Target [x, y] of the foreground's top-left, top-right, bottom-right and bottom-left corners",
					},
					"grayscale": booleanProp("Load both images as grayscale"),
					"out":       stringProp("Output file path"),
				},
				"required": []string{"background", "foreground", "corners", "out"},
			},
		},

		// Basic Image Information
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and channel count of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      stringProp("Image file"),
					"grayscale": booleanProp("Report the dimensions of the grayscale decode"),
				},
				"required": []string{"path"},
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
