package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/http/response"
	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
	"github.com/yungbote/neurobridge-backend/internal/memory/offline"
	"github.com/yungbote/neurobridge-backend/internal/memory/online"
	"github.com/yungbote/neurobridge-backend/internal/memory/router"
	"github.com/yungbote/neurobridge-backend/internal/preprocessor"
)

// InvokeRequest is the single external HTTP contract. ElderlyID is not
// named in the request shape the distilled spec lists, which only carries
// the session-scoped fields; every downstream read requires elderly_id as
// a mandatory filter, so this facade accepts it explicitly as JSON rather
// than inventing an implicit session lookup.
type InvokeRequest struct {
	Text      string   `json:"text" binding:"required"`
	FlowType  string   `json:"flow_type" binding:"required"`
	ElderlyID string   `json:"elderly_id" binding:"required"`
	QA        *string  `json:"qa,omitempty"`
	Topic     any      `json:"topic,omitempty"` // string or []string, per §6
}

// InvokeResponse is the unified return shape, identical across flow types.
type InvokeResponse struct {
	UserQuery   string              `json:"user_query"`
	FinalChunks []domain.FinalChunk `json:"final_chunks"`
	Inserted    bool                `json:"inserted"`
}

// InvokeHandler implements C9: validate → preprocess → classify →
// dispatch → respond.
type InvokeHandler struct {
	preprocessor preprocessor.Preprocessor
	router       *router.Router
	offlineGraph *offline.Graph
	onlineGraph  *online.Graph
}

func NewInvokeHandler(pp preprocessor.Preprocessor, r *router.Router, off *offline.Graph, on *online.Graph) *InvokeHandler {
	return &InvokeHandler{preprocessor: pp, router: r, offlineGraph: off, onlineGraph: on}
}

// Invoke handles POST /invoke.
//
// Step 2 of §4.9 discards every sentence but the first from the
// preprocessor's output before routing — preserved here unmodified even
// though multi-sentence handling is an open question, not corrected.
func (h *InvokeHandler) Invoke(c *gin.Context) {
	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var flowType domain.FlowType
	switch req.FlowType {
	case string(domain.FlowOffline):
		flowType = domain.FlowOffline
	case string(domain.FlowOnline):
		flowType = domain.FlowOnline
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_flow_type", errInvalidFlowType(req.FlowType))
		return
	}

	elderlyID, err := uuid.Parse(req.ElderlyID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_elderly_id", err)
		return
	}

	result := h.preprocessor.Process(req.Text)
	if len(result.Sentences) == 0 {
		response.RespondError(c, http.StatusBadRequest, "empty_text", errEmptyText())
		return
	}
	workingUtterance := result.Sentences[0]

	var qaType *domain.QAType
	if req.QA != nil {
		q := domain.QAType(*req.QA)
		qaType = &q
	}
	topics := parseTopics(req.Topic)

	classified, err := h.router.Classify(c.Request.Context(), router.Request{
		Text:     workingUtterance,
		FlowType: flowType,
		QA:       qaType,
		Topics:   topics,
	})
	if err != nil {
		response.RespondError(c, domain.HTTPStatus(err), "classify_failed", err)
		return
	}

	var resp InvokeResponse
	resp.UserQuery = workingUtterance

	switch flowType {
	case domain.FlowOffline:
		out, err := h.offlineGraph.Run(c.Request.Context(), offline.Input{
			ElderlyID: elderlyID,
			Text:      classified.Text,
			QAType:    classified.QAType,
			Topics:    classified.Topics,
		})
		if err != nil {
			response.RespondError(c, domain.HTTPStatus(err), "offline_graph_failed", err)
			return
		}
		resp.FinalChunks = out.FinalChunks
		resp.Inserted = out.Inserted
	case domain.FlowOnline:
		out, err := h.onlineGraph.Run(c.Request.Context(), online.Input{
			ElderlyID: elderlyID,
			Text:      classified.Text,
		})
		if err != nil {
			response.RespondError(c, domain.HTTPStatus(err), "online_graph_failed", err)
			return
		}
		resp.FinalChunks = out.FinalChunks
		resp.Inserted = out.Inserted
	}

	if resp.FinalChunks == nil {
		resp.FinalChunks = []domain.FinalChunk{}
	}
	response.RespondOK(c, resp)
}

// parseTopics accepts either a single topic string or an array of topic
// strings per §6's `"topic"?: string|string[]`.
func parseTopics(raw any) []domain.Bucket {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []domain.Bucket{domain.Bucket(v)}
	case []any:
		out := make([]domain.Bucket, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, domain.Bucket(s))
			}
		}
		return out
	default:
		return nil
	}
}

func errInvalidFlowType(v string) error {
	return &flowTypeError{v: v}
}

type flowTypeError struct{ v string }

func (e *flowTypeError) Error() string { return "invalid flow_type: " + e.v }

func errEmptyText() error { return emptyTextError{} }

type emptyTextError struct{}

func (emptyTextError) Error() string { return "text has no content after preprocessing" }
