package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawdit/lawdit"
	"google.golang.org/genai"
)

// DefaultMaxIterations bounds an agent's model turns when none is set.
const DefaultMaxIterations = 50

// ToolResult is what a tool hands back to the model: a JSON-like response
// plus optional extra parts (e.g. page images) sent alongside it.
type ToolResult struct {
	Response map[string]any
	Parts    []*genai.Part
}

// ToolHandler executes a function call.
type ToolHandler func(ctx context.Context, args map[string]any) (*ToolResult, error)

// Tool pairs a function declaration with its handler.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Handle      ToolHandler
}

// Name returns the declared function name.
func (t *Tool) Name() string { return t.Declaration.Name }

// Agent is a model persona with instructions and tools.
type Agent struct {
	Name          string
	Description   string
	Model         string
	Instructions  string
	Tools         []*Tool
	MaxIterations int
}

// RunResult is the outcome of one agent conversation.
type RunResult struct {
	Text       string
	Iterations int
}

// Run starts a fresh conversation with task as the user turn and loops
// until the model answers without function calls. Function calls in one
// turn are executed in order.
func (a *Agent) Run(ctx context.Context, gen ContentGenerator, task string) (*RunResult, error) {
	maxIter := a.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	model := a.Model
	if model == "" {
		model = DefaultModel
	}

	tools := make(map[string]*Tool, len(a.Tools))
	for _, t := range a.Tools {
		tools[t.Name()] = t
	}
	config := a.config()
	history := []*genai.Content{genai.NewContentFromText(task, genai.RoleUser)}

	for i := 1; i <= maxIter; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := gen.GenerateContent(ctx, model, history, config)
		if err != nil {
			return nil, fmt.Errorf("%s: generate: %w", a.Name, err)
		}
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, lawdit.Errorf(lawdit.EINTERNAL, "%s: empty model response", a.Name)
		}

		reply := resp.Candidates[0].Content
		if reply.Role == "" {
			reply.Role = string(genai.RoleModel)
		}
		history = append(history, reply)

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return &RunResult{Text: strings.TrimSpace(resp.Text()), Iterations: i}, nil
		}

		var parts, extra []*genai.Part
		for _, call := range calls {
			result := a.call(ctx, tools, call)
			part := genai.NewPartFromFunctionResponse(call.Name, result.Response)
			part.FunctionResponse.ID = call.ID
			parts = append(parts, part)
			extra = append(extra, result.Parts...)
		}
		history = append(history, genai.NewContentFromParts(append(parts, extra...), genai.RoleUser))
	}

	return nil, lawdit.Errorf(lawdit.EINTERNAL, "%s: exceeded %d iterations", a.Name, maxIter)
}

// call runs one function call. Unknown tools and handler failures are
// reported to the model as error responses.
func (a *Agent) call(ctx context.Context, tools map[string]*Tool, call *genai.FunctionCall) *ToolResult {
	tool, ok := tools[call.Name]
	if !ok {
		return errorResult(fmt.Sprintf("unknown tool %q", call.Name))
	}
	result, err := tool.Handle(ctx, call.Args)
	if err != nil {
		return errorResult(err.Error())
	}
	if result == nil || result.Response == nil {
		return &ToolResult{Response: map[string]any{"result": "ok"}}
	}
	return result
}

func (a *Agent) config() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{Temperature: ptr(float32(0.3))}
	if a.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(a.Instructions, genai.RoleUser)
	}
	if len(a.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(a.Tools))
		for _, t := range a.Tools {
			decls = append(decls, t.Declaration)
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

func errorResult(msg string) *ToolResult {
	return &ToolResult{Response: map[string]any{"error": msg}}
}

func textResult(key, value string) *ToolResult {
	return &ToolResult{Response: map[string]any{key: value}}
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", lawdit.Errorf(lawdit.EINVALID, "missing argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", lawdit.Errorf(lawdit.EINVALID, "argument %q must be a string", name)
	}
	return s, nil
}

func optionalStringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func intArg(args map[string]any, name string, def int) int {
	if n, ok := toInt(args[name]); ok {
		return n
	}
	return def
}

func intSliceArg(args map[string]any, name string) ([]int, error) {
	raw, ok := args[name].([]any)
	if !ok {
		if ints, ok := args[name].([]int); ok {
			return ints, nil
		}
		return nil, lawdit.Errorf(lawdit.EINVALID, "argument %q must be a list of integers", name)
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		n, ok := toInt(v)
		if !ok {
			return nil, lawdit.Errorf(lawdit.EINVALID, "argument %q must be a list of integers", name)
		}
		out = append(out, n)
	}
	return out, nil
}

func stringSliceArg(args map[string]any, name string) []string {
	switch v := args[name].(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, s := range v {
			if str, ok := s.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func objectSchema(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}
