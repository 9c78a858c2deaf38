package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/ideaflow/api/transport"
	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/pkg/httpcontext"
)

// ConceptService is the part of the concept use case exposed over HTTP.
type ConceptService interface {
	EvaluateConcept(ctx context.Context, id, problem string) (*domain.Concept, error)
	AcceptConcept(ctx context.Context, id, newIdeaID string) (*domain.Concept, error)
	GetConcept(ctx context.Context, id string) (*domain.Concept, error)
	ReevaluateConcept(ctx context.Context, id string) (*domain.Concept, error)
}

type ConceptHandler struct {
	baseHandler
	uc ConceptService
}

func NewConceptHandler(uc ConceptService, adapter *httpcontext.Adapter, logger *zap.Logger) *ConceptHandler {
	return &ConceptHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Submit a problem statement for evaluation
// @Tags concepts
// @Router /api/v1/concepts [post]
func (h *ConceptHandler) Evaluate(ctx *fasthttp.RequestCtx) {
	var req transport.EvaluateConceptRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	concept, err := h.uc.EvaluateConcept(stdCtx, orNewID(req.ID), req.Problem)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewConceptView(concept))
}

// @Summary Get concept
// @Tags concepts
// @Router /api/v1/concepts/{id} [get]
func (h *ConceptHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	concept, err := h.uc.GetConcept(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewConceptView(concept))
}

// @Summary Retry the evaluation of a concept that has none yet
// @Tags concepts
// @Router /api/v1/concepts/{id}/evaluation [post]
func (h *ConceptHandler) Reevaluate(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	concept, err := h.uc.ReevaluateConcept(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewConceptView(concept))
}

// @Summary Accept an evaluated concept and create its idea
// @Tags concepts
// @Router /api/v1/concepts/{id}/accept [post]
func (h *ConceptHandler) Accept(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.AcceptConceptRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	concept, err := h.uc.AcceptConcept(stdCtx, id, orNewID(req.IdeaID))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.AcceptConceptResponse{
		ConceptID: concept.ID(),
		IdeaID:    concept.IdeaID(),
		Status:    string(concept.Status()),
	})
}
