// Package tool exposes the calculator tabs as JSON tool calls for agent
// frameworks.
package tool

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/njchilds90/indmath/internal/config"
	"github.com/njchilds90/indmath/tabs"
)

// Tool names.
const (
	LPCorners          = "lp_corners"
	EOQ                = "eoq"
	MM1                = "mm1"
	PartialDerivatives = "partial_derivatives"
	Schema             = "schema"
)

// ============================================================
// Request / response
// ============================================================

type Request struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// Response is the panel the tab would display, model result included.
type Response struct {
	tabs.Panel
}

func errorResponse(format string, args ...any) Response {
	return Response{Panel: tabs.Panel{Visible: true, Error: fmt.Sprintf(format, args...)}}
}

// Handler dispatches tool calls to a Workbench. Missing params take the
// configured tab defaults.
type Handler struct {
	wb       *tabs.Workbench
	defaults config.Tabs
}

func NewHandler(wb *tabs.Workbench, defaults config.Tabs) *Handler {
	return &Handler{wb: wb, defaults: defaults}
}

// Handle runs one tool call. Bad params and unknown tools are reported in
// Response.Error.
func (h *Handler) Handle(req Request) Response {
	switch req.Tool {
	case LPCorners:
		in := h.defaults.LP.Input()
		if err := decode(req.Params, &in); err != nil {
			return errorResponse("invalid params for %s: %v", req.Tool, err)
		}
		return Response{Panel: h.wb.LP(in)}

	case EOQ:
		params := h.defaults.EOQ.Params()
		if err := decode(req.Params, &params); err != nil {
			return errorResponse("invalid params for %s: %v", req.Tool, err)
		}
		return Response{Panel: h.wb.EOQ(params)}

	case MM1:
		params := h.defaults.MM1.Params()
		if err := decode(req.Params, &params); err != nil {
			return errorResponse("invalid params for %s: %v", req.Tool, err)
		}
		return Response{Panel: h.wb.MM1(params)}

	case PartialDerivatives:
		in := tabs.PartialInput{Function: h.defaults.Partial.Function}
		if err := decode(req.Params, &in); err != nil {
			return errorResponse("invalid params for %s: %v", req.Tool, err)
		}
		return Response{Panel: h.wb.Partial(in)}

	case Schema:
		var spec any
		if err := json.Unmarshal([]byte(Spec()), &spec); err != nil {
			return errorResponse("schema: %v", err)
		}
		return Response{Panel: tabs.Panel{Tab: Schema, Visible: true, Result: spec}}
	}
	return errorResponse("unknown tool: %s", req.Tool)
}

// decode copies params onto out, leaving fields that are not mentioned at
// their current value. Unknown keys are an error.
func decode(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

// ============================================================
// Schema
// ============================================================

// Spec returns the tool schema in the MCP tools/list shape.
func Spec() string {
	tools := []map[string]any{
		ts(LPCorners, "Evaluate Z = c1*x + c2*y at (0,0), (0,y2) and (x3,0) and pick the maximum",
			map[string]string{"c1": "number", "c2": "number", "y2": "number", "x3": "number"}),
		ts(EOQ, "Economic order quantity sqrt(2DS/H); silent unless all inputs are positive",
			map[string]string{"demand": "number", "ordering_cost": "number", "holding_cost": "number"}),
		ts(MM1, "Steady-state M/M/1 metrics rho, L, Lq, W and Wq",
			map[string]string{"arrival_rate": "number", "service_rate": "number"}),
		ts(PartialDerivatives, "Partial derivatives of f(x, y), optionally evaluated at a point",
			map[string]string{"function": "string", "at": "object"}),
		ts(Schema, "Return this tool schema", map[string]string{}),
	}
	b, _ := json.MarshalIndent(map[string]any{"tools": tools}, "", "  ")
	return string(b)
}

// ts builds one tool entry. Every param is optional and defaults to the
// configured tab input.
func ts(name, description string, props map[string]string) map[string]any {
	properties := map[string]any{}
	for k, typ := range props {
		properties[k] = map[string]any{"type": typ}
	}
	return map[string]any{
		"name":        name,
		"description": description,
		"inputSchema": map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   []string{},
		},
	}
}
