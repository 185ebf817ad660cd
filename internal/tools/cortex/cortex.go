// Package cortex exposes TheHive's Cortex connector operations as MCP tools.
package cortex

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/hive"
	"github.com/redwaysecurity/the-hive-mcp-server/internal/tools"
)

type Catalog struct {
	sessions *hive.SessionCache
}

func New(sessions *hive.SessionCache) *Catalog {
	return &Catalog{sessions: sessions}
}

func (c *Catalog) Name() string { return "cortex" }

func (c *Catalog) Tools() ([]tools.Tool, error) {
	return []tools.Tool{
		{
			Name:        "list_cortex_analyzers",
			Title:       "List Cortex Analyzers",
			Description: "List available Cortex analyzers.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"range": map[string]any{"type": "string", "description": "Optional pagination range header value, e.g. '0-49'"},
				},
			},
			Handler: c.listAnalyzers,
		},
		{
			Name:        "list_cortex_analyzers_by_type",
			Title:       "List Cortex Analyzers by Type",
			Description: "List Cortex analyzers for a data type.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"data_type": map[string]any{"type": "string", "description": "Observable data type"},
				},
				"required": []string{"data_type"},
			},
			Handler: c.listAnalyzersByType,
		},
		{
			Name:        "get_cortex_analyzer",
			Title:       "Get Cortex Analyzer",
			Description: "Get a Cortex analyzer by id.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"analyzer_id": map[string]any{"type": "string", "description": "Analyzer ID"},
				},
				"required": []string{"analyzer_id"},
			},
			Handler: c.getAnalyzer,
		},
		{
			Name:        "create_cortex_analyzer_job",
			Title:       "Create Cortex Analyzer Job",
			Description: "Create a Cortex analyzer job.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"analyzer_id": map[string]any{"type": "string", "description": "Analyzer ID"},
					"cortex_id":   map[string]any{"type": "string", "description": "Cortex ID"},
					"artifact_id": map[string]any{"type": "string", "description": "Artifact ID"},
					"parameters":  map[string]any{"type": "object", "description": "Optional parameters"},
				},
				"required": []string{"analyzer_id", "cortex_id", "artifact_id"},
			},
			Handler: c.createAnalyzerJob,
		},
		{
			Name:        "get_cortex_analyzer_job",
			Title:       "Get Cortex Analyzer Job",
			Description: "Get a Cortex analyzer job by id.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"job_id": map[string]any{"type": "string", "description": "Job ID"},
				},
				"required": []string{"job_id"},
			},
			Handler: c.getAnalyzerJob,
		},
		{
			Name:        "run_observable_analyzer",
			Title:       "Run Observable Analyzer",
			Description: "Run a Cortex analyzer on an observable.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"analyzer_id":   map[string]any{"type": "string", "description": "Analyzer ID"},
					"cortex_id":     map[string]any{"type": "string", "description": "Cortex ID"},
					"observable_id": map[string]any{"type": "string", "description": "Observable ID"},
					"parameters":    map[string]any{"type": "object", "description": "Optional parameters"},
				},
				"required": []string{"analyzer_id", "cortex_id", "observable_id"},
			},
			Handler: c.runObservableAnalyzer,
		},
		{
			Name:        "list_cortex_responders",
			Title:       "List Cortex Responders",
			Description: "List Cortex responders for an entity.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entity_type": map[string]any{"type": "string", "description": "Entity type"},
					"entity_id":   map[string]any{"type": "string", "description": "Entity ID"},
				},
				"required": []string{"entity_type", "entity_id"},
			},
			Handler: c.listResponders,
		},
		{
			Name:        "create_cortex_responder_action",
			Title:       "Create Cortex Responder Action",
			Description: "Execute a Cortex responder action.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"object_type":  map[string]any{"type": "string", "description": "Object type"},
					"object_id":    map[string]any{"type": "string", "description": "Object ID"},
					"responder_id": map[string]any{"type": "string", "description": "Responder ID"},
					"parameters":   map[string]any{"type": "object", "description": "Optional parameters"},
					"tlp":          map[string]any{"type": "integer", "description": "TLP level"},
				},
				"required": []string{"object_type", "object_id", "responder_id"},
			},
			Handler: c.createResponderAction,
		},
	}, nil
}

func (c *Catalog) listAnalyzers(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		Range string `json:"range"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error listing analyzers: %v", err)
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error listing analyzers: %v", err)
	}
	result, err := client.Cortex.ListAnalyzers(ctx, p.Range)
	if err != nil {
		return tools.Errorf("Error listing analyzers: %v", err)
	}
	return tools.Text(tools.JSON(result))
}

func (c *Catalog) listAnalyzersByType(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		DataType string `json:"data_type"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.DataType == "" {
		return tools.Errorf("Error listing analyzers by type: data_type is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error listing analyzers by type: %v", err)
	}
	result, err := client.Cortex.ListAnalyzersByType(ctx, p.DataType)
	if err != nil {
		return tools.Errorf("Error listing analyzers by type: %v", err)
	}
	return tools.Text(tools.JSON(result))
}

func (c *Catalog) getAnalyzer(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		AnalyzerID string `json:"analyzer_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.AnalyzerID == "" {
		return tools.Errorf("Error getting analyzer: analyzer_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting analyzer: %v", err)
	}
	result, err := client.Cortex.GetAnalyzer(ctx, p.AnalyzerID)
	if err != nil {
		return tools.Errorf("Error getting analyzer: %v", err)
	}
	return tools.Text(tools.JSON(result))
}

type analyzerJobParams struct {
	AnalyzerID string         `json:"analyzer_id"`
	CortexID   string         `json:"cortex_id"`
	ArtifactID string         `json:"artifact_id"`
	Parameters map[string]any `json:"parameters"`
}

func (c *Catalog) createAnalyzerJob(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p analyzerJobParams
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error creating analyzer job: %v", err)
	}
	return c.submitAnalyzerJob(ctx, p)
}

// runObservableAnalyzer is a convenience alias: the observable ID is the
// artifact ID of the submitted job.
func (c *Catalog) runObservableAnalyzer(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		analyzerJobParams
		ObservableID string `json:"observable_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return tools.Errorf("Error creating analyzer job: %v", err)
	}
	p.ArtifactID = p.ObservableID
	return c.submitAnalyzerJob(ctx, p.analyzerJobParams)
}

func (c *Catalog) submitAnalyzerJob(ctx context.Context, p analyzerJobParams) *mcp.CallToolResult {
	if p.AnalyzerID == "" || p.CortexID == "" || p.ArtifactID == "" {
		return tools.Errorf("Error creating analyzer job: analyzer_id, cortex_id and artifact_id are required")
	}
	job := map[string]any{
		"analyzerId": p.AnalyzerID,
		"cortexId":   p.CortexID,
		"artifactId": p.ArtifactID,
	}
	if p.Parameters != nil {
		job["parameters"] = p.Parameters
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating analyzer job: %v", err)
	}
	result, err := client.Cortex.CreateAnalyzerJob(ctx, job)
	if err != nil {
		return tools.Errorf("Error creating analyzer job: %v", err)
	}
	return tools.Text(tools.JSON(result))
}

func (c *Catalog) getAnalyzerJob(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.JobID == "" {
		return tools.Errorf("Error getting analyzer job: job_id is required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error getting analyzer job: %v", err)
	}
	result, err := client.Cortex.GetAnalyzerJob(ctx, p.JobID)
	if err != nil {
		return tools.Errorf("Error getting analyzer job: %v", err)
	}
	return tools.Text(tools.JSON(result))
}

func (c *Catalog) listResponders(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		EntityType string `json:"entity_type"`
		EntityID   string `json:"entity_id"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.EntityType == "" || p.EntityID == "" {
		return tools.Errorf("Error listing responders: entity_type and entity_id are required")
	}
	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error listing responders: %v", err)
	}
	result, err := client.Cortex.ListResponders(ctx, p.EntityType, p.EntityID)
	if err != nil {
		return tools.Errorf("Error listing responders: %v", err)
	}
	return tools.Text(tools.JSON(result))
}

func (c *Catalog) createResponderAction(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var p struct {
		ObjectType  string         `json:"object_type"`
		ObjectID    string         `json:"object_id"`
		ResponderID string         `json:"responder_id"`
		Parameters  map[string]any `json:"parameters"`
		TLP         *int           `json:"tlp"`
	}
	if err := json.Unmarshal(args, &p); err != nil || p.ObjectType == "" || p.ObjectID == "" || p.ResponderID == "" {
		return tools.Errorf("Error creating responder action: object_type, object_id and responder_id are required")
	}

	action := map[string]any{
		"objectId":    p.ObjectID,
		"objectType":  p.ObjectType,
		"responderId": p.ResponderID,
	}
	if p.Parameters != nil {
		action["parameters"] = p.Parameters
	}
	if p.TLP != nil {
		action["tlp"] = *p.TLP
	}

	client, err := c.sessions.Get()
	if err != nil {
		return tools.Errorf("Error creating responder action: %v", err)
	}
	result, err := client.Cortex.CreateResponderAction(ctx, action)
	if err != nil {
		return tools.Errorf("Error creating responder action: %v", err)
	}
	return tools.Text(tools.JSON(result))
}
