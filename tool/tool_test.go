package tool_test

import (
	"encoding/json"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/indmath/eoq"
	"github.com/njchilds90/indmath/internal/config"
	"github.com/njchilds90/indmath/lp"
	"github.com/njchilds90/indmath/partial"
	"github.com/njchilds90/indmath/queue"
	"github.com/njchilds90/indmath/tabs"
	"github.com/njchilds90/indmath/tool"
)

func newHandler(t *testing.T) *tool.Handler {
	t.Helper()
	settings := tabs.DefaultSettings()
	settings.Plot.Format = ""
	wb, err := tabs.NewWorkbench(logr.Discard(), settings, nil)
	require.NoError(t, err)
	return tool.NewHandler(wb, config.Default().Tabs)
}

func TestHandle_LPDefaults(t *testing.T) {
	resp := newHandler(t).Handle(tool.Request{Tool: tool.LPCorners})

	require.Empty(t, resp.Error)
	res, ok := resp.Result.(lp.Result)
	require.True(t, ok)
	assert.Equal(t, 2, res.Best)
	assert.Equal(t, "Optimal solution: (50, 0) with maximum profit Rp 2,000", resp.Lines[3])
}

func TestHandle_LPPartialParams(t *testing.T) {
	resp := newHandler(t).Handle(tool.Request{
		Tool:   tool.LPCorners,
		Params: map[string]any{"c2": 100.0},
	})

	res := resp.Result.(lp.Result)
	assert.Equal(t, 1, res.Best)
	assert.InDelta(t, 3333.0, res.Optimal().Z, 1e-9)
}

func TestHandle_EOQ(t *testing.T) {
	h := newHandler(t)

	resp := h.Handle(tool.Request{Tool: tool.EOQ})
	res, ok := resp.Result.(eoq.Result)
	require.True(t, ok)
	assert.InDelta(t, 100.0, res.Quantity, 1e-9)

	resp = h.Handle(tool.Request{Tool: tool.EOQ, Params: map[string]any{"demand": 0.0}})
	assert.False(t, resp.Visible)
	assert.Nil(t, resp.Result)
	assert.Empty(t, resp.Error)
}

func TestHandle_MM1(t *testing.T) {
	h := newHandler(t)

	resp := h.Handle(tool.Request{Tool: tool.MM1, Params: map[string]any{"arrival_rate": 2.0, "service_rate": 5.0}})
	m, ok := resp.Result.(queue.Metrics)
	require.True(t, ok)
	assert.InDelta(t, 0.4, m.Utilization, 1e-12)

	resp = h.Handle(tool.Request{Tool: tool.MM1, Params: map[string]any{"arrival_rate": 5.0, "service_rate": 2.0}})
	assert.Equal(t, queue.ErrUnstable.Error(), resp.Error)
	assert.Nil(t, resp.Result)
}

func TestHandle_PartialDerivatives(t *testing.T) {
	h := newHandler(t)

	resp := h.Handle(tool.Request{
		Tool:   tool.PartialDerivatives,
		Params: map[string]any{"at": map[string]any{"x": 1.0, "y": 2.0}},
	})
	require.Empty(t, resp.Error)
	res, ok := resp.Result.(partial.Result)
	require.True(t, ok)
	assert.Equal(t, "2 x y + 3 y^{2}", res.DX.LaTeX)
	assert.Contains(t, resp.Lines, "∇f(1, 2) = (16.00, 13.00)")

	resp = h.Handle(tool.Request{Tool: tool.PartialDerivatives, Params: map[string]any{"function": "not a function !!"}})
	assert.Equal(t, partial.ErrInvalidFunction.Error(), resp.Error)
	assert.Nil(t, resp.Result)
}

func TestHandle_BadParams(t *testing.T) {
	h := newHandler(t)

	resp := h.Handle(tool.Request{Tool: tool.EOQ, Params: map[string]any{"demmand": 1.0}})
	assert.Contains(t, resp.Error, "invalid params for eoq")

	resp = h.Handle(tool.Request{Tool: tool.MM1, Params: map[string]any{"arrival_rate": "fast"}})
	assert.Contains(t, resp.Error, "invalid params for mm1")
}

func TestHandle_UnknownTool(t *testing.T) {
	resp := newHandler(t).Handle(tool.Request{Tool: "simplex"})
	assert.Equal(t, "unknown tool: simplex", resp.Error)
}

func TestSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(tool.Spec()), &spec))

	var names []string
	for _, tl := range spec.Tools {
		names = append(names, tl.Name)
	}
	assert.Equal(t, []string{"lp_corners", "eoq", "mm1", "partial_derivatives", "schema"}, names)

	resp := newHandler(t).Handle(tool.Request{Tool: tool.Schema})
	assert.NotNil(t, resp.Result)
}

func TestResponse_JSON(t *testing.T) {
	resp := newHandler(t).Handle(tool.Request{Tool: tool.MM1})
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "mm1", out["tab"])
	assert.Equal(t, true, out["visible"])
	assert.Contains(t, out, "result")
}
