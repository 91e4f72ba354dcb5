package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-synth/internal/background"
	"github.com/ironsheep/image-synth/internal/imaging"
	"github.com/ironsheep/image-synth/internal/perspective"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "background_crop", "image_overlay").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ImageResult describes an image written or inspected by a tool.
type ImageResult struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
}

// CropResult adds the provenance of a background crop.
type CropResult struct {
	ImageResult
	Source        string                `json:"source"`
	Region        imaging.Rect          `json:"region"`
	Interpolation imaging.Interpolation `json:"interpolation"`
}

func newImageResult(path string, buf *imaging.PixelBuffer) ImageResult {
	return ImageResult{
		Path:     path,
		Width:    buf.Width,
		Height:   buf.Height,
		Channels: buf.Channels,
	}
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
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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
//  2. Applies configured defaults for optional parameters
//  3. Loads images through the shared store and cache
//  4. Calls the background, imaging or perspective function
//  5. Writes the output file and describes it
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Background Sampling
	case "background_sample":
		return s.handleBackgroundSample(args)
	case "background_crop":
		return s.handleBackgroundCrop(args)

	// Composition
	case "image_collage":
		return s.handleImageCollage(args)
	case "image_overlay":
		return s.handleImageOverlay(args)

	// Basic Image Information
	case "image_dimensions":
		return s.handleImageDimensions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return errors.New("missing arguments")
	}
	return json.Unmarshal(args, v)
}

// grayscaleOr resolves an optional grayscale flag against a default.
func grayscaleOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func modeFor(grayscale bool) imaging.ColorMode {
	if grayscale {
		return imaging.ModeGrayscale
	}
	return imaging.ModeColor
}

// save encodes buf to out and describes the written file.
func (s *Server) save(buf *imaging.PixelBuffer, out string) (ImageResult, error) {
	if out == "" {
		return ImageResult{}, errors.New("out is required")
	}
	if err := s.store.Encode(buf, out); err != nil {
		return ImageResult{}, err
	}
	s.logger.Debug("wrote image", "path", out, "width", buf.Width, "height", buf.Height, "channels", buf.Channels)
	return newImageResult(out, buf), nil
}

// === Background Sampling Handlers ===

type backgroundArgs struct {
	Root      string `json:"root"`
	Grayscale *bool  `json:"grayscale"`
	Out       string `json:"out"`
}

func (s *Server) backgroundSampler(a backgroundArgs) (*background.Sampler, error) {
	root := a.Root
	if root == "" {
		root = s.cfg.Background.Root
	}
	if root == "" {
		return nil, errors.New("root is required when no background root is configured")
	}
	return s.sampler(root, grayscaleOr(a.Grayscale, s.cfg.Background.Grayscale))
}

func (s *Server) handleBackgroundSample(args json.RawMessage) (interface{}, error) {
	var a backgroundArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	smp, err := s.backgroundSampler(a)
	if err != nil {
		return nil, err
	}
	buf, err := smp.SampleImage()
	if err != nil {
		return nil, err
	}
	return s.save(buf, a.Out)
}

type backgroundCropArgs struct {
	backgroundArgs
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleBackgroundCrop(args json.RawMessage) (interface{}, error) {
	var a backgroundCropArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = s.cfg.Crop.Width
	}
	if a.Height == 0 {
		a.Height = s.cfg.Crop.Height
	}
	smp, err := s.backgroundSampler(a.backgroundArgs)
	if err != nil {
		return nil, err
	}
	crop, err := smp.SampleCropDetail(a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	res, err := s.save(crop.Buffer, a.Out)
	if err != nil {
		return nil, err
	}
	return CropResult{
		ImageResult:   res,
		Source:        crop.Source,
		Region:        crop.Region,
		Interpolation: crop.Interpolation,
	}, nil
}

// === Composition Handlers ===

type imageCollageArgs struct {
	Paths     []string `json:"paths"`
	Grayscale bool     `json:"grayscale"`
	Margin    *int     `json:"margin"`
	Fill      string   `json:"fill"`
	Out       string   `json:"out"`
}

func (s *Server) handleImageCollage(args json.RawMessage) (interface{}, error) {
	var a imageCollageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, imaging.ErrEmptyInput
	}
	margin := s.cfg.Collage.Margin
	if a.Margin != nil {
		margin = *a.Margin
	}
	if a.Fill == "" {
		a.Fill = s.cfg.Collage.Fill
	}
	fill, err := imaging.ParseFill(a.Fill)
	if err != nil {
		return nil, err
	}

	images := make([]*imaging.PixelBuffer, len(a.Paths))
	for i, p := range a.Paths {
		if images[i], err = s.store.Decode(p, modeFor(a.Grayscale)); err != nil {
			return nil, err
		}
	}

	canvas, err := imaging.ComposeGridFill(images, margin, fill)
	if err != nil {
		return nil, err
	}
	return s.save(canvas, a.Out)
}

type imageOverlayArgs struct {
	Background string       `json:"background"`
	Foreground string       `json:"foreground"`
	Corners    [][2]float64 `json:"corners"`
	Grayscale  bool         `json:"grayscale"`
	Out        string       `json:"out"`
}

func (s *Server) handleImageOverlay(args json.RawMessage) (interface{}, error) {
	var a imageOverlayArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Corners) != 4 {
		return nil, fmt.Errorf("corners must hold exactly 4 points, got %d", len(a.Corners))
	}
	var dst perspective.Quad
	for i, c := range a.Corners {
		dst[i] = perspective.Point{X: c[0], Y: c[1]}
	}

	mode := modeFor(a.Grayscale)
	bg, err := s.store.Decode(a.Background, mode)
	if err != nil {
		return nil, err
	}
	fg, err := s.store.Decode(a.Foreground, mode)
	if err != nil {
		return nil, err
	}

	out, err := perspective.CompositeWarped(bg, fg, dst)
	if err != nil {
		return nil, err
	}
	return s.save(out, a.Out)
}

// === Basic Image Information Handlers ===

type imageDimensionsArgs struct {
	Path      string `json:"path"`
	Grayscale bool   `json:"grayscale"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.store.Decode(a.Path, modeFor(a.Grayscale))
	if err != nil {
		return nil, err
	}
	return newImageResult(a.Path, buf), nil
}
