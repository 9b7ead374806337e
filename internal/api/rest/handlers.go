package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clintrovert/tricorder/internal/gitinfo"
	"github.com/clintrovert/tricorder/internal/jira"
	"github.com/clintrovert/tricorder/internal/ticket"
	"github.com/clintrovert/tricorder/pkg/types"
)

// SummaryResolver serves ticket summaries and connection tests.
type SummaryResolver interface {
	GetSummary(ctx context.Context, key string) (*types.TicketSummary, error)
	TestConnection(ctx context.Context) (string, error)
}

// PullRequestLookup resolves a pull request to its head branch name.
type PullRequestLookup interface {
	HeadBranch(ctx context.Context, owner, repo string, number int) (string, error)
}

// Condenser produces a short blurb from a ticket's description; an empty
// result means no enrichment.
type Condenser interface {
	Condense(ctx context.Context, summary *types.TicketSummary) string
}

// Handler handles REST API requests
type Handler struct {
	resolver  SummaryResolver
	pulls     PullRequestLookup // nil when no GitHub token is configured
	condenser Condenser         // nil when enrichment is disabled
	repoPath  string            // fallback for requests without a branch
	logger    *zap.Logger
}

// NewHandler creates a new REST handler. pulls, condenser and repoPath are
// optional.
func NewHandler(resolver SummaryResolver, pulls PullRequestLookup, condenser Condenser, repoPath string, logger *zap.Logger) *Handler {
	return &Handler{
		resolver:  resolver,
		pulls:     pulls,
		condenser: condenser,
		repoPath:  repoPath,
		logger:    logger,
	}
}

// RepoInfo carries repository state from the editor.
type RepoInfo struct {
	Branch string `json:"branch"`
}

// ContextRequest is the editor's context-injection request.
type ContextRequest struct {
	FilePath  string    `json:"filePath"`
	Selection string    `json:"selection"`
	RepoInfo  *RepoInfo `json:"repoInfo,omitempty"`
}

// ContextResponse is the payload injected into the editor's AI context.
type ContextResponse struct {
	Context string `json:"context"`
}

// PRContextRequest asks for context scoped to a GitHub pull request.
type PRContextRequest struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Number    int    `json:"number"`
	FilePath  string `json:"filePath"`
	Selection string `json:"selection"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
	User   string `json:"user,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetContext handles POST /context
func (h *Handler) GetContext(w http.ResponseWriter, r *http.Request) {
	var req ContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	branch := ""
	if req.RepoInfo != nil {
		branch = req.RepoInfo.Branch
	}
	if branch == "" && h.repoPath != "" {
		b, ok, err := gitinfo.CurrentBranch(h.repoPath)
		if err != nil {
			h.logger.Warn("failed to read local branch", zap.String("path", h.repoPath), zap.Error(err))
		} else if ok {
			branch = b
		}
	}

	h.respondWithContext(w, r, branch, req.FilePath, req.Selection)
}

// GetPRContext handles POST /context/pr
func (h *Handler) GetPRContext(w http.ResponseWriter, r *http.Request) {
	if h.pulls == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "pull request lookups are not configured"})
		return
	}

	var req PRContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.Owner == "" || req.Repo == "" || req.Number <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "owner, repo and number are required"})
		return
	}

	branch, err := h.pulls.HeadBranch(r.Context(), req.Owner, req.Repo, req.Number)
	if err != nil {
		h.logger.Error("failed to resolve pull request", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	h.respondWithContext(w, r, branch, req.FilePath, req.Selection)
}

// GetTicket handles GET /tickets/{key}
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	key, ok := ticket.Normalize(chi.URLParam(r, "key"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ticket key"})
		return
	}

	summary, err := h.resolver.GetSummary(r.Context(), key)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	user, err := h.resolver.TestConnection(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status: "unhealthy",
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", User: user})
}

// respondWithContext resolves the branch's ticket and writes the context
// payload. A branch without a ticket key is a valid empty-context response,
// not an error.
func (h *Handler) respondWithContext(w http.ResponseWriter, r *http.Request, branch, filePath, selection string) {
	key, found := ticket.Extract(branch)
	if !found {
		writeJSON(w, http.StatusOK, ContextResponse{
			Context: buildContext(filePath, selection, nil, ""),
		})
		return
	}

	summary, err := h.resolver.GetSummary(r.Context(), key)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}

	condensed := ""
	if h.condenser != nil {
		condensed = h.condenser.Condense(r.Context(), summary)
	}

	writeJSON(w, http.StatusOK, ContextResponse{
		Context: buildContext(filePath, selection, summary, condensed),
	})
}

// writeResolveError maps the resolver's error taxonomy to HTTP statuses.
func (h *Handler) writeResolveError(w http.ResponseWriter, err error) {
	var notFound *jira.NotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
		return
	}

	var authErr *jira.AuthError
	if errors.As(err, &authErr) {
		h.logger.Error("jira credentials rejected", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: authErr.Error()})
		return
	}

	h.logger.Error("jira request failed", zap.Error(err))
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
}

// buildContext renders the context payload for the editor. summary may be
// nil when the branch carries no ticket key.
func buildContext(filePath, selection string, summary *types.TicketSummary, condensed string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are editing: %s\n", filePath)
	sb.WriteString("Selection:\n")
	sb.WriteString(selection)
	sb.WriteString("\n\n")

	if summary == nil {
		sb.WriteString("Jira Summary:\nNo Jira issue found.\n")
		return sb.String()
	}

	sb.WriteString("Jira Summary:\n")
	fmt.Fprintf(&sb, "%s: %s", summary.Key, summary.Summary)
	if summary.Status != "" {
		fmt.Fprintf(&sb, " [%s]", summary.Status)
	}
	sb.WriteString("\n")

	if summary.Assignee != "" {
		fmt.Fprintf(&sb, "Assignee: %s\n", summary.Assignee)
	}
	if summary.Priority != "" {
		fmt.Fprintf(&sb, "Priority: %s\n", summary.Priority)
	}
	if summary.URL != "" {
		fmt.Fprintf(&sb, "Link: %s\n", summary.URL)
	}

	switch {
	case condensed != "":
		fmt.Fprintf(&sb, "Details: %s\n", condensed)
	case summary.Description != "":
		fmt.Fprintf(&sb, "Details: %s\n", summary.Description)
	}

	return sb.String()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/context", h.GetContext)
	r.Post("/context/pr", h.GetPRContext)
	r.Get("/tickets/{key}", h.GetTicket)
}
