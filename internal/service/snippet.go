// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate, enforce the
// ownership rules and orchestrate; repositories talk to the database. The
// service depends only on interfaces (repository.SnippetRepository,
// Highlighter) so every rule in this package is testable with in-memory
// fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/highlight"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// Validation constants.
const (
	MaxTitleLength  = 100
	DefaultLanguage = "python"
	DefaultStyle    = "friendly"
)

// Highlighter is the rendering collaborator as the service sees it: a pure
// function from snippet fields to an HTML document, plus the immutable
// choice lists validation enforces. Implemented by *highlight.Renderer;
// tests substitute a fake.
type Highlighter interface {
	Render(opts highlight.Options) (string, error)
	SupportsLanguage(name string) bool
	SupportsStyle(name string) bool
}

// SnippetInput is a candidate field set for a create or full-replace write.
//
// Code is a pointer so "field missing" and "empty string" are distinct: the
// contract requires code to be present, but an empty snippet is legal.
// Unknown fields in the request body never reach this struct — the JSON
// decoder drops them, which is exactly the "ignore extras" behaviour the
// API promises.
type SnippetInput struct {
	Title    string  `json:"title"`
	Code     *string `json:"code"`
	Linenos  bool    `json:"linenos"`
	Language string  `json:"language"`
	Style    string  `json:"style"`
}

// SnippetService handles business logic for snippets.
type SnippetService struct {
	repo        repository.SnippetRepository
	highlighter Highlighter
	logger      *slog.Logger
}

// NewSnippetService creates a SnippetService. The caller decides which
// repository and highlighter implementations to wire in.
func NewSnippetService(repo repository.SnippetRepository, hl Highlighter, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:        repo,
		highlighter: hl,
		logger:      logger,
	}
}

// validate checks a candidate field set against the write contract and
// normalises defaults. It mutates in: omitted language/style fall back to
// their declared defaults before the enum check, so a minimal {"code": ...}
// body is always valid.
func (s *SnippetService) validate(in *SnippetInput) error {
	if in.Code == nil {
		return apperror.ValidationFailed("code", "this field is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	if in.Style == "" {
		in.Style = DefaultStyle
	}

	if !s.highlighter.SupportsLanguage(in.Language) {
		return apperror.ValidationFailed("language",
			fmt.Sprintf("%q is not a supported language", in.Language))
	}
	if !s.highlighter.SupportsStyle(in.Style) {
		return apperror.ValidationFailed("style",
			fmt.Sprintf("%q is not a supported style", in.Style))
	}

	return nil
}

// render recomputes the derived Highlighted field from the snippet's current
// state. Called on every save — Highlighted is never patched incrementally,
// so it always matches the stored (code, language, style, linenos, title).
func (s *SnippetService) render(snippet *model.Snippet) error {
	html, err := s.highlighter.Render(highlight.Options{
		Code:     snippet.Code,
		Language: snippet.Language,
		Style:    snippet.Style,
		Linenos:  snippet.Linenos,
		Title:    snippet.Title,
	})
	if err != nil {
		// Enum validation should have caught anything renderable-invalid;
		// a failure here is a server-side fault and aborts the save.
		return fmt.Errorf("rendering snippet: %w", err)
	}
	snippet.Highlighted = html
	return nil
}

// Create validates and persists a new snippet owned by the principal.
// Anonymous principals are rejected before any other work.
func (s *SnippetService) Create(ctx context.Context, p auth.Principal, in SnippetInput) (*model.Snippet, error) {
	if !p.Authenticated {
		return nil, apperror.Forbidden("authentication required to create snippets")
	}

	if err := s.validate(&in); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		Title:    strings.TrimSpace(in.Title),
		Code:     *in.Code,
		Linenos:  in.Linenos,
		Language: in.Language,
		Style:    in.Style,
		OwnerID:  p.UserID,
	}

	if err := s.render(snippet); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("owner", p.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", snippet.Owner),
		slog.String("language", snippet.Language),
	)

	return snippet, nil
}

// Get retrieves a snippet by ID. Open to any principal.
func (s *SnippetService) Get(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List retrieves snippets in ascending creation order. Open to any
// principal. With zero-value options this returns everything.
func (s *SnippetService) List(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	snippets, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Highlighted returns the stored HTML rendering for a snippet.
func (s *SnippetService) Highlighted(ctx context.Context, id string) (string, error) {
	snippet, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return snippet.Highlighted, nil
}

// Replace performs a full-replace update (PUT semantics): every writable
// field is taken from the input, with omitted optional fields reverting to
// their defaults. ID, creation time and owner are immutable.
//
// The snippet is located before the ownership check runs, so a write against
// a nonexistent ID reports 404 — never 403 — regardless of who asks.
func (s *SnippetService) Replace(ctx context.Context, p auth.Principal, id string, in SnippetInput) (*model.Snippet, error) {
	snippet, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(p, snippet) {
		return nil, apperror.Forbidden("only the owner may modify this snippet")
	}

	if err := s.validate(&in); err != nil {
		return nil, err
	}

	snippet.Title = strings.TrimSpace(in.Title)
	snippet.Code = *in.Code
	snippet.Linenos = in.Linenos
	snippet.Language = in.Language
	snippet.Style = in.Style

	if err := s.render(snippet); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))

	return snippet, nil
}

// Delete removes a snippet. Owner-only, with the same locate-then-authorize
// order as Replace.
func (s *SnippetService) Delete(ctx context.Context, p auth.Principal, id string) error {
	snippet, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !CanModify(p, snippet) {
		return apperror.Forbidden("only the owner may delete this snippet")
	}

	if err := s.repo.Delete(ctx, snippet.ID); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}
