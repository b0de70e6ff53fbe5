package server

// Version is stamped at build time via ldflags.
var Version = "dev"

// ToolInfo describes a tool for tools/list
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func toolInfos() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "generate_doc",
			Description: "Generate a Doxygen comment block for the C function prototype at or near a cursor line",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the C source file",
					},
					"line": map[string]interface{}{
						"type":        "integer",
						"description": "1-based cursor line",
					},
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Unsaved buffer content; omitted means read from disk",
					},
					"directions": map[string]interface{}{
						"type":        "boolean",
						"description": "Emit @param[in]/@param[out] direction tags (default true)",
					},
				},
				"required": []string{"file", "line"},
			},
		},
		{
			Name:        "param_candidates",
			Description: "List known descriptions for parameter names harvested from existing comment blocks",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the C source file",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Restrict to one parameter name",
					},
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Unsaved buffer content; omitted means read from disk",
					},
				},
				"required": []string{"file"},
			},
		},
		{
			Name:        "build_path",
			Description: "Resolve the directory holding compile_commands.json for a source file",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the C source file",
					},
				},
				"required": []string{"file"},
			},
		},
		{
			Name:        "reload",
			Description: "Drop memoized build directories and cached translation units",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
