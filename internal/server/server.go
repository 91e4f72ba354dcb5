package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/image-synth/internal/background"
	"github.com/ironsheep/image-synth/internal/config"
	"github.com/ironsheep/image-synth/internal/imaging"
)

// Version is reported in the initialize handshake. The command sets it from
// build flags.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cfg    config.Config
	logger *log.Logger
	cache  *imaging.BufferCache
	store  imaging.Store
	rand   background.Rand

	mu       sync.Mutex
	samplers map[samplerKey]*background.Sampler
}

type samplerKey struct {
	root      string
	grayscale bool
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a server using cfg for tool defaults. A nil logger discards
// output. A non-zero cfg.Seed makes every sampler draw from one seeded source.
func New(cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cache := imaging.NewBufferCache()
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		cache:    cache,
		store:    imaging.NewFileStore(cache),
		samplers: make(map[samplerKey]*background.Sampler),
	}
	if cfg.Seed != 0 {
		s.rand = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1))
	}
	return s
}

// Run serves requests from stdin and writes responses to stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "err", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", "err", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    codeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-synth",
				"version": Version,
			},
		},
	}
}

// sampler returns the cached sampler for root and mode, listing root on first use.
func (s *Server) sampler(root string, grayscale bool) (*background.Sampler, error) {
	key := samplerKey{root: root, grayscale: grayscale}

	s.mu.Lock()
	defer s.mu.Unlock()

	if smp, ok := s.samplers[key]; ok {
		return smp, nil
	}

	opts := []background.Option{
		background.WithLogger(s.logger),
		background.WithMaxRetries(s.cfg.Background.MaxRetries),
	}
	if s.rand != nil {
		opts = append(opts, background.WithRand(s.rand))
	}
	smp, err := background.NewSampler(s.store, root, grayscale, opts...)
	if err != nil {
		return nil, err
	}
	s.samplers[key] = smp
	return smp, nil
}
