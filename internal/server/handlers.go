package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/staff-tracker-mcp/internal/config"
	"github.com/ironsheep/staff-tracker-mcp/internal/imaging"
	"github.com/ironsheep/staff-tracker-mcp/internal/simulate"
	"github.com/ironsheep/staff-tracker-mcp/internal/staves"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "staff_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	s.logger.Debug("tool call", "tool", params.Name)
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted optional parameters from the server config
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/staves/simulate function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Staff Tracking
	case "staff_edge_mask":
		return s.handleStaffEdgeMask(args)
	case "staff_detect":
		return s.handleStaffDetect(args)
	case "staff_render":
		return s.handleStaffRender(args)

	// Filter Tuning
	case "kalman_simulate":
		return s.handleKalmanSimulate(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating a missing object as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Staff Tracking Handlers ===

type staffEdgeMaskArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold"`
}

func (s *Server) threshold(v *int) (int, error) {
	if v == nil {
		return s.cfg.EdgeThreshold, nil
	}
	if err := config.CheckThreshold(*v); err != nil {
		return 0, fmt.Errorf("threshold: %w", err)
	}
	return *v, nil
}

func (s *Server) handleStaffEdgeMask(args json.RawMessage) (interface{}, error) {
	var a staffEdgeMaskArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	threshold, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeMask(imaging.NewEdgeMask(img, threshold), threshold)
}

type staffTrackArgs struct {
	Path           string          `json:"path"`
	Threshold      *int            `json:"threshold"`
	Tolerance      *float32        `json:"tolerance"`
	MinLength      *int            `json:"min_length"`
	Region         *imaging.Region `json:"region"`
	IncludeHistory bool            `json:"include_history"`
}

// tracked is the outcome of one staff scan.
type tracked struct {
	img       image.Image
	mask      *imaging.Mask
	staves    []*staves.Staff
	minLength int
}

// track loads the image, applies the optional region and runs the tracker
// over its edge mask.
func (s *Server) track(a staffTrackArgs) (*tracked, error) {
	threshold, err := s.threshold(a.Threshold)
	if err != nil {
		return nil, err
	}
	tolerance := s.cfg.MatchTolerance
	if a.Tolerance != nil {
		if err := config.CheckTolerance(*a.Tolerance); err != nil {
			return nil, fmt.Errorf("tolerance: %w", err)
		}
		tolerance = *a.Tolerance
	}
	minLength := s.cfg.MinStaffLength
	if a.MinLength != nil {
		if err := config.CheckMinLength(*a.MinLength); err != nil {
			return nil, fmt.Errorf("min_length: %w", err)
		}
		minLength = *a.MinLength
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Region != nil {
		img, err = imaging.CropRegion(img, *a.Region)
		if err != nil {
			return nil, err
		}
	}

	mask := imaging.NewEdgeMask(img, threshold)
	list, err := staves.Detect(mask,
		staves.WithTolerance(tolerance),
		staves.WithLogger(s.logger.With("path", a.Path)))
	if err != nil {
		return nil, fmt.Errorf("staff tracking failed: %w", err)
	}
	return &tracked{img: img, mask: mask, staves: list, minLength: minLength}, nil
}

func (s *Server) handleStaffDetect(args json.RawMessage) (interface{}, error) {
	var a staffTrackArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	t, err := s.track(a)
	if err != nil {
		return nil, err
	}
	return staves.Summarize(t.staves, t.mask.Width(), t.mask.Height(), t.minLength, a.IncludeHistory), nil
}

func (s *Server) handleStaffRender(args json.RawMessage) (interface{}, error) {
	var a staffTrackArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	t, err := s.track(a)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeRender(t.img, staves.Filter(t.staves, t.minLength))
}

// === Filter Tuning Handlers ===

type kalmanSimulateArgs struct {
	Seed   *uint64 `json:"seed"`
	Length *int    `json:"length"`
	Noise  *int    `json:"noise"`
}

// maxSimulateLength bounds kalman_simulate so a single call cannot build an
// arbitrarily large plot.
const maxSimulateLength = 100000

// SimulateResult contains filter statistics and a plot of the run.
type SimulateResult struct {
	Config      simulate.Config  `json:"config"`
	Summary     simulate.Summary `json:"summary"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
}

func (s *Server) handleKalmanSimulate(args json.RawMessage) (interface{}, error) {
	var a kalmanSimulateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	cfg := simulate.DefaultConfig()
	if a.Seed != nil {
		cfg.Seed = *a.Seed
	}
	if a.Length != nil {
		if *a.Length < 1 || *a.Length > maxSimulateLength {
			return nil, fmt.Errorf("length must be between 1 and %d, got %d", maxSimulateLength, *a.Length)
		}
		cfg.Length = *a.Length
	}
	if a.Noise != nil {
		if *a.Noise < 0 {
			return nil, fmt.Errorf("noise must not be negative, got %d", *a.Noise)
		}
		cfg.Noise = *a.Noise
	}

	samples, err := simulate.Run(cfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := simulate.Plot(samples, &buf); err != nil {
		return nil, fmt.Errorf("failed to plot simulation: %w", err)
	}

	return &SimulateResult{
		Config:      cfg,
		Summary:     simulate.Summarize(samples),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
