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

// IdeaService is the part of the idea use case exposed over HTTP.
type IdeaService interface {
	GetIdea(ctx context.Context, ideaID string) (*domain.Idea, error)
	GetTargetAudiences(ctx context.Context, ideaID string) ([]domain.TargetAudience, error)
	GetSocialMediaCampaigns(ctx context.Context, ideaID string) (domain.SocialMediaCampaigns, error)
	Archive(ctx context.Context, ideaID string) (*domain.Idea, error)
	PositionIdea(ctx context.Context, ideaID, productType, stage, region string) (*domain.Idea, error)
	RequestSocialMediaCampaigns(ctx context.Context, ideaID string) (bool, error)
}

type IdeaHandler struct {
	baseHandler
	uc IdeaService
}

func NewIdeaHandler(uc IdeaService, adapter *httpcontext.Adapter, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get idea
// @Tags ideas
// @Router /api/v1/ideas/{id} [get]
func (h *IdeaHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	idea, err := h.uc.GetIdea(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewIdeaView(idea))
}

// @Summary List target audiences of an idea
// @Tags ideas
// @Router /api/v1/ideas/{id}/target-audiences [get]
func (h *IdeaHandler) TargetAudiences(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	audiences, err := h.uc.GetTargetAudiences(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTargetAudienceViews(audiences))
}

// @Summary Archive idea
// @Tags ideas
// @Router /api/v1/ideas/{id}/archive [post]
func (h *IdeaHandler) Archive(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	idea, err := h.uc.Archive(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewIdeaView(idea))
}

// @Summary Set product type, stage and region
// @Tags ideas
// @Router /api/v1/ideas/{id}/positioning [put]
func (h *IdeaHandler) Position(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.PositionIdeaRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	idea, err := h.uc.PositionIdea(stdCtx, id, req.ProductType, req.Stage, req.Region)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewIdeaView(idea))
}

// @Summary Request social media campaign generation
// @Tags ideas
// @Router /api/v1/ideas/{id}/social-media-campaigns [post]
func (h *IdeaHandler) RequestCampaigns(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	requested, err := h.uc.RequestSocialMediaCampaigns(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusAccepted, transport.CampaignRequestResponse{IdeaID: id, Requested: requested})
}

// @Summary Get generated social media campaigns
// @Tags ideas
// @Router /api/v1/ideas/{id}/social-media-campaigns [get]
func (h *IdeaHandler) Campaigns(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	campaigns, err := h.uc.GetSocialMediaCampaigns(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, campaigns)
}
