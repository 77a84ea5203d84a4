package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	httperr "github.com/tripline/eventgate/internal/core/errors"
	"github.com/tripline/eventgate/internal/engine"
	"github.com/tripline/eventgate/internal/schema"
)

// Handler serves descriptor discovery and strict dry-runs.
type Handler struct {
	engine   *engine.Engine
	registry *schema.Registry
}

// NewHandler creates a new catalog API handler.
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{
		engine:   eng,
		registry: eng.Registry(),
	}
}

// FieldResponse describes one declared field.
type FieldResponse struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Enum     string   `json:"enum,omitempty"`
	Values   []string `json:"values,omitempty"`
}

// RuleResponse describes one declared rule.
type RuleResponse struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Fields []string `json:"fields"`
	Reason string   `json:"reason"`
	Fatal  bool     `json:"fatal"`
}

// TypeResponse is the response body for descriptor operations.
type TypeResponse struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	AliasOf     string          `json:"alias_of,omitempty"`
	Timestamps  []string        `json:"timestamps,omitempty"`
	Fields      []FieldResponse `json:"fields"`
	Rules       []RuleResponse  `json:"rules,omitempty"`
}

// ListedTypeResponse is the list payload for type discovery.
type ListedTypeResponse struct {
	Type     string   `json:"type"`
	AliasOf  string   `json:"alias_of,omitempty"`
	Required []string `json:"required"`
	Optional []string `json:"optional"`
}

// HandleGet handles GET /v1/types/{type}.
func (h *Handler) HandleGet(c *gin.Context) {
	d, err := h.registry.Get(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: string(v1.ReasonUnknownEventType),
			Message:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(d))
}

// HandleList handles GET /v1/types. ?alias=false hides legacy aliases.
func (h *Handler) HandleList(c *gin.Context) {
	includeAliases := c.DefaultQuery("alias", "true") != "false"

	types := h.registry.Types()
	responses := make([]*ListedTypeResponse, 0, len(types))
	for _, name := range types {
		d, ok := h.registry.Lookup(name)
		if !ok {
			continue
		}
		if d.AliasOf != "" && !includeAliases {
			continue
		}
		responses = append(responses, &ListedTypeResponse{
			Type:     d.Type,
			AliasOf:  d.AliasOf,
			Required: nonNil(d.Required()),
			Optional: nonNil(d.Optional()),
		})
	}

	c.JSON(http.StatusOK, responses)
}

// HandleValidate handles POST /v1/types/{type}/validate, a strict dry-run.
// The body is validated as the path type regardless of its own type field.
func (h *Handler) HandleValidate(c *gin.Context) {
	eventType := c.Param("type")
	if _, ok := h.registry.Lookup(eventType); !ok {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: string(v1.ReasonUnknownEventType),
			Message:   "unknown event type " + eventType,
		})
		return
	}

	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
		})
		return
	}

	env := h.engine.ValidateNormalize(v1.RawEvent(data), eventType)
	c.JSON(http.StatusOK, env)
}

func toResponse(d *schema.Descriptor) *TypeResponse {
	resp := &TypeResponse{
		Type:        d.Type,
		Description: d.Description,
		AliasOf:     d.AliasOf,
		Timestamps:  d.TimestampFields,
		Fields:      make([]FieldResponse, 0, len(d.Fields)),
	}
	for _, f := range d.Fields {
		fr := FieldResponse{
			Name:     f.Name,
			Kind:     string(f.Kind),
			Required: f.Required,
		}
		if f.Enum != nil {
			fr.Enum = f.Enum.Name
			fr.Values = f.Enum.Values
		}
		resp.Fields = append(resp.Fields, fr)
	}
	for _, r := range d.Rules {
		resp.Rules = append(resp.Rules, RuleResponse{
			Name:   r.Name,
			Kind:   string(r.Kind),
			Fields: r.Fields,
			Reason: string(r.Reason),
			Fatal:  r.Fatal,
		})
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
